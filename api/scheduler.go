/*
scheduler.go - Periodic solvency monitor

PURPOSE:
  Periodically projects every stored study and flags funding policies whose
  balance goes negative within the horizon. Boards adopt one policy per
  study; a deficit under that policy is logged at Warn so it shows up in
  alerting, deficits under the alternatives at Info.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Runs once immediately on Start
  - Keeps the last report for GET /api/monitor

CONFIGURATION:
  - CheckInterval: How often to check (MONITOR_INTERVAL, default: 1 hour)
  - Enabled: Whether the monitor is active (interval 0 disables it)

USAGE:
  monitor := NewSolvencyMonitor(svc, logger)
  monitor.Start()
  // ... later
  monitor.Stop()

SEE ALSO:
  - handlers.go: GetPortfolio (same projection, on demand)
  - study/service.go: ProjectAll
*/
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/warp/reserve-engine/study"
)

// DeficitAlert is one policy that runs out of money within the horizon.
type DeficitAlert struct {
	StudyID          string  `json:"study_id"`
	PropertyName     string  `json:"property_name"`
	Policy           string  `json:"policy"`
	Selected         bool    `json:"selected"`
	FirstDeficitYear int     `json:"first_deficit_year"`
	MinBalance       float64 `json:"min_balance"`
}

// MonitorReport is the outcome of one monitor run.
type MonitorReport struct {
	CheckedAt time.Time      `json:"checked_at"`
	Studies   int            `json:"studies"`
	Alerts    []DeficitAlert `json:"alerts"`
	Error     string         `json:"error,omitempty"`
}

// SolvencyMonitor re-projects all studies on a ticker.
type SolvencyMonitor struct {
	Service       *study.Service
	CheckInterval time.Duration
	Enabled       bool

	log    *logrus.Logger
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	reportMu sync.RWMutex
	last     *MonitorReport
}

// NewSolvencyMonitor creates a new monitor with a one-hour interval.
func NewSolvencyMonitor(svc *study.Service, log *logrus.Logger) *SolvencyMonitor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SolvencyMonitor{
		Service:       svc,
		CheckInterval: time.Hour,
		Enabled:       true,
		log:           log,
	}
}

// Start begins the monitor.
func (m *SolvencyMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.Enabled || m.CheckInterval <= 0 {
		m.log.Info("solvency monitor disabled")
		return
	}
	if m.ticker != nil {
		return
	}

	m.ticker = time.NewTicker(m.CheckInterval)
	m.stop = make(chan struct{})
	m.wg.Add(1)
	go m.run()

	m.log.WithField("interval", m.CheckInterval.String()).Info("solvency monitor started")
}

// Stop stops the monitor and waits for an in-flight run to finish.
func (m *SolvencyMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ticker != nil {
		m.ticker.Stop()
		close(m.stop)
		m.wg.Wait()
		m.ticker = nil
		m.log.Info("solvency monitor stopped")
	}
}

func (m *SolvencyMonitor) run() {
	defer m.wg.Done()

	m.RunNow(context.Background())

	for {
		select {
		case <-m.ticker.C:
			m.RunNow(context.Background())
		case <-m.stop:
			return
		}
	}
}

// RunNow performs one check and stores the report.
func (m *SolvencyMonitor) RunNow(ctx context.Context) MonitorReport {
	report := MonitorReport{CheckedAt: time.Now().UTC(), Alerts: []DeficitAlert{}}

	projections, err := m.Service.ProjectAll(ctx, study.ProjectOptions{})
	if err != nil {
		m.log.WithError(err).Error("solvency check failed")
		report.Error = err.Error()
		m.setLast(report)
		return report
	}

	report.Studies = len(projections)
	for _, p := range projections {
		for _, t := range p.Result.Trajectories {
			if t.Solvent() {
				continue
			}
			alert := DeficitAlert{
				StudyID:          p.Study.ID,
				PropertyName:     p.Study.Property.Name,
				Policy:           t.Policy,
				Selected:         t.Policy == p.Study.SelectedPolicy,
				FirstDeficitYear: p.Result.StartYear + t.FirstDeficitOffset,
				MinBalance:       t.MinBalance.InexactFloat64(),
			}
			report.Alerts = append(report.Alerts, alert)

			entry := m.log.WithFields(logrus.Fields{
				"study_id":           alert.StudyID,
				"policy":             alert.Policy,
				"first_deficit_year": alert.FirstDeficitYear,
				"min_balance":        t.MinBalance.String(),
			})
			if alert.Selected {
				entry.Warn("adopted funding policy goes into deficit")
			} else {
				entry.Info("alternative funding policy goes into deficit")
			}
		}
	}

	m.setLast(report)
	return report
}

// LastReport returns the most recent report, or nil before the first run.
func (m *SolvencyMonitor) LastReport() *MonitorReport {
	m.reportMu.RLock()
	defer m.reportMu.RUnlock()
	return m.last
}

func (m *SolvencyMonitor) setLast(r MonitorReport) {
	m.reportMu.Lock()
	defer m.reportMu.Unlock()
	m.last = &r
}

// GetMonitorReport returns the last monitor report, running a check first
// if none exists yet.
// GET /api/monitor
func (m *SolvencyMonitor) GetMonitorReport(w http.ResponseWriter, r *http.Request) {
	report := m.LastReport()
	if report == nil {
		rep := m.RunNow(r.Context())
		report = &rep
	}
	writeJSON(w, http.StatusOK, report)
}
