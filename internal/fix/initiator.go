package fix

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Checker-Finance/fix-adapter/internal/execution"
	"github.com/Checker-Finance/fix-adapter/internal/metrics"
	"github.com/Checker-Finance/fix-adapter/internal/secrets"
)

// Status is the lifecycle state of the FIX initiator.
type Status string

const (
	StatusStopped  Status = "STOPPED"
	StatusStarting Status = "STARTING"
	StatusRunning  Status = "RUNNING"
	StatusError    Status = "ERROR"
)

// SessionConfig describes the session the initiator runs against the gateway.
type SessionConfig struct {
	SenderCompID string `json:"senderCompId"`
	TargetCompID string `json:"targetCompId"`
	GatewayURL   string `json:"gatewayUrl"`
}

// Diagnostics records the most recent lifecycle event and error.
type Diagnostics struct {
	LastEvent string    `json:"lastEvent,omitempty"`
	LastError string    `json:"lastError,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ServiceStatus is a point-in-time snapshot of the initiator.
type ServiceStatus struct {
	Status      Status        `json:"status"`
	Details     string        `json:"details,omitempty"`
	Sessions    []string      `json:"sessions"`
	Config      SessionConfig `json:"config"`
	Diagnostics Diagnostics   `json:"diagnostics"`
}

// CredentialsSource resolves the session credentials used at logon.
type CredentialsSource interface {
	Resolve(ctx context.Context) (secrets.SessionCredentials, error)
}

// TransportFactory builds a fresh transport for each start attempt.
type TransportFactory func() Transport

// ReportCallback receives execution reports decoded off the gateway.
type ReportCallback func(ctx context.Context, event execution.ReportEvent)

// QuoteCallback receives market data updates relayed by the gateway.
type QuoteCallback func(update MarketDataUpdate)

// Initiator owns the FIX session lifecycle. Start and stop requests are
// serialized; status reads never block on an in-flight start.
type Initiator struct {
	logger   *zap.Logger
	factory  TransportFactory
	creds    CredentialsSource
	gateway  string
	onReport ReportCallback
	onQuote  QuoteCallback

	lifecycleMu sync.Mutex

	stateMu   sync.RWMutex
	status    ServiceStatus
	transport Transport
}

// NewInitiator constructs a stopped initiator. onQuote may be nil when
// market data is not consumed.
func NewInitiator(
	logger *zap.Logger,
	factory TransportFactory,
	creds CredentialsSource,
	gatewayURL string,
	onReport ReportCallback,
	onQuote QuoteCallback,
) *Initiator {
	i := &Initiator{
		logger:   logger,
		factory:  factory,
		creds:    creds,
		gateway:  gatewayURL,
		onReport: onReport,
		onQuote:  onQuote,
	}
	i.status = ServiceStatus{
		Status:   StatusStopped,
		Sessions: []string{},
		Config:   SessionConfig{GatewayURL: gatewayURL},
		Diagnostics: Diagnostics{
			LastEvent: "initiator created",
			UpdatedAt: time.Now().UTC(),
		},
	}
	metrics.SetInitiatorState(gaugeFor(StatusStopped))
	return i
}

// Start connects to the gateway and logs the session on. Starting an
// initiator that is already RUNNING or STARTING is a no-op. On failure the
// initiator lands in ERROR with the cause recorded, and a later Start may
// retry from there.
func (i *Initiator) Start(ctx context.Context) error {
	i.lifecycleMu.Lock()
	defer i.lifecycleMu.Unlock()

	current := i.Status()
	if current.Status == StatusRunning || current.Status == StatusStarting {
		i.logger.Info("fix.initiator.start_ignored", zap.String("status", string(current.Status)))
		return nil
	}

	i.setStatus(StatusStarting, "", nil, "start requested", "")
	i.logger.Info("fix.initiator.starting", zap.String("gateway", i.gateway))

	creds, err := i.creds.Resolve(ctx)
	if err != nil {
		return i.fail(nil, "resolve credentials", err)
	}

	sessionID := fmt.Sprintf("FIX.4.4:%s->%s", creds.SenderCompID, creds.TargetCompID)
	i.setSessionConfig(SessionConfig{
		SenderCompID: creds.SenderCompID,
		TargetCompID: creds.TargetCompID,
		GatewayURL:   i.gateway,
	})

	transport := i.factory()
	transport.RegisterHandler(FrameExecutionReport, i.handleExecutionReport)
	if i.onQuote != nil {
		transport.RegisterHandler(FrameMarketData, i.handleMarketData)
	}

	if err := transport.Connect(ctx); err != nil {
		return i.fail(transport, "connect", err)
	}

	logon := LogonRequest{
		SenderCompID: creds.SenderCompID,
		TargetCompID: creds.TargetCompID,
		Password:     creds.Password,
	}
	if err := transport.Send(ctx, FrameLogon, logon); err != nil {
		return i.fail(transport, "logon", err)
	}

	i.stateMu.Lock()
	i.transport = transport
	i.stateMu.Unlock()

	i.setStatus(StatusRunning, "", []string{sessionID}, "initiator started", "")
	i.logger.Info("fix.initiator.started", zap.String("session", sessionID))
	return nil
}

// Stop releases the transport and parks the initiator in STOPPED. Stopping
// an already stopped initiator is a no-op.
func (i *Initiator) Stop() {
	i.lifecycleMu.Lock()
	defer i.lifecycleMu.Unlock()

	i.stateMu.Lock()
	transport := i.transport
	i.transport = nil
	i.stateMu.Unlock()

	if transport != nil {
		if err := transport.Close(); err != nil {
			i.logger.Warn("fix.initiator.close_failed", zap.Error(err))
		}
	}

	if i.Status().Status == StatusStopped {
		return
	}
	i.setStatus(StatusStopped, "", nil, "initiator stopped", "")
	i.logger.Info("fix.initiator.stopped")
}

// Status returns a copy of the current status snapshot.
func (i *Initiator) Status() ServiceStatus {
	i.stateMu.RLock()
	defer i.stateMu.RUnlock()

	snapshot := i.status
	snapshot.Sessions = append([]string{}, i.status.Sessions...)
	return snapshot
}

// Transport returns the live transport, if any. Used by the order sender
// after its RUNNING gate passes.
func (i *Initiator) Transport() (Transport, bool) {
	i.stateMu.RLock()
	defer i.stateMu.RUnlock()
	return i.transport, i.transport != nil
}

func (i *Initiator) fail(transport Transport, step string, err error) error {
	if transport != nil {
		_ = transport.Close()
	}
	i.setStatus(StatusError, err.Error(), nil, "start failed at "+step, err.Error())
	metrics.IncError("fix_initiator", step)
	i.logger.Error("fix.initiator.start_failed", zap.String("step", step), zap.Error(err))
	return fmt.Errorf("start FIX initiator (%s): %w", step, err)
}

// setStatus transitions the snapshot. sessions == nil keeps the existing
// session list.
func (i *Initiator) setStatus(status Status, details string, sessions []string, lastEvent, lastError string) {
	i.stateMu.Lock()
	defer i.stateMu.Unlock()

	if sessions == nil {
		sessions = i.status.Sessions
	}
	i.status.Status = status
	i.status.Details = details
	i.status.Sessions = sessions
	i.status.Diagnostics = Diagnostics{
		LastEvent: lastEvent,
		LastError: lastError,
		UpdatedAt: time.Now().UTC(),
	}
	metrics.SetInitiatorState(gaugeFor(status))
}

func (i *Initiator) setSessionConfig(cfg SessionConfig) {
	i.stateMu.Lock()
	defer i.stateMu.Unlock()
	i.status.Config = cfg
}

func (i *Initiator) handleExecutionReport(frame *Frame) {
	var report ExecutionReport
	if err := frame.Decode(&report); err != nil {
		i.logger.Error("fix.initiator.bad_execution_report", zap.Error(err))
		metrics.IncError("fix_initiator", "decode_execution_report")
		return
	}
	i.onReport(context.Background(), report.ToReportEvent())
}

func (i *Initiator) handleMarketData(frame *Frame) {
	var update MarketDataUpdate
	if err := frame.Decode(&update); err != nil {
		i.logger.Error("fix.initiator.bad_market_data", zap.Error(err))
		metrics.IncError("fix_initiator", "decode_market_data")
		return
	}
	i.onQuote(update)
}

func gaugeFor(status Status) float64 {
	switch status {
	case StatusStarting:
		return 1
	case StatusRunning:
		return 2
	case StatusError:
		return 3
	default:
		return 0
	}
}
