package api

import (
	"fmt"
	"strings"
)

func (r CreateOrderRequest) Validate() error {
	if strings.TrimSpace(r.Symbol) == "" {
		return fmt.Errorf("symbol is required")
	}
	side := strings.ToUpper(strings.TrimSpace(r.Side))
	if side != "BUY" && side != "SELL" {
		return fmt.Errorf("side must be 'BUY' or 'SELL'")
	}
	if r.Qty <= 0 {
		return fmt.Errorf("qty must be greater than 0")
	}
	ordType := strings.ToUpper(strings.TrimSpace(r.Type))
	if ordType != "MARKET" && ordType != "LIMIT" {
		return fmt.Errorf("type must be 'MARKET' or 'LIMIT'")
	}
	if strings.TrimSpace(r.TIF) == "" {
		return fmt.Errorf("tif is required")
	}
	return nil
}

func (r SimulateExecReportRequest) Validate() error {
	if strings.TrimSpace(r.ClOrdID) == "" && strings.TrimSpace(r.OrderID) == "" {
		return fmt.Errorf("at least one of clOrdId or orderId is required")
	}
	if strings.TrimSpace(r.ExecType) == "" {
		return fmt.Errorf("execType is required")
	}
	if strings.TrimSpace(r.OrdStatus) == "" {
		return fmt.Errorf("ordStatus is required")
	}
	return nil
}

func (r SimulateQuoteRequest) Validate() error {
	if strings.TrimSpace(r.Symbol) == "" {
		return fmt.Errorf("symbol is required")
	}
	if r.Bid == nil && r.Ask == nil && r.Last == nil {
		return fmt.Errorf("at least one of bid, ask or last is required")
	}
	return nil
}
