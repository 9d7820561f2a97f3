package remedy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LindsayRex/searchfix/internal/faults"
	"github.com/LindsayRex/searchfix/internal/index"
	"github.com/LindsayRex/searchfix/internal/permission"
	"github.com/LindsayRex/searchfix/internal/repair"
	"github.com/LindsayRex/searchfix/internal/service"
	"github.com/LindsayRex/searchfix/internal/startupconf"
)

// Orchestrator composes the leaf components into the ordered, failure-
// tolerant remediation pipeline. Every stage runs regardless of the outcome
// of the previous stage: each one independently improves the odds of
// recovery, and a blocked sub-step (a locked file, say) must not prevent
// fixing an unrelated misconfiguration. Stage failures become StageResults,
// never aborts.
//
// The orchestrator owns no external resource — only the Report being built,
// which is exclusively its own for the duration of one run and handed to the
// caller at the end.
type Orchestrator struct {
	cfg     Config
	svc     service.Controller
	store   index.Store
	startup startupconf.Store
	perms   permission.Escalator
	repair  repair.Invoker
	logger  *slog.Logger
}

// NewOrchestrator creates an Orchestrator over the given components.
func NewOrchestrator(
	cfg Config,
	svc service.Controller,
	store index.Store,
	startup startupconf.Store,
	perms permission.Escalator,
	rep repair.Invoker,
	logger *slog.Logger,
) *Orchestrator {
	cfg.ApplyDefaults()
	return &Orchestrator{
		cfg:     cfg,
		svc:     svc,
		store:   store,
		startup: startup,
		perms:   perms,
		repair:  rep,
		logger:  logger.With("component", "remedy"),
	}
}

// Run performs one remediation pass and returns the report. The pipeline is
// strictly sequential: stages have a hard data dependency (the service must
// be stopped before its files can be cleared, cleared before it restarts),
// and the report always contains exactly one result per stage, in order.
func (o *Orchestrator) Run(ctx context.Context) Report {
	var report Report

	for _, stage := range stageOrder {
		var res StageResult
		switch stage {
		case StageStopService:
			res = o.stopService(ctx)
		case StageClearIndex:
			res = o.clearIndex(ctx)
		case StageReconfigureStartup:
			res = o.reconfigureStartup(ctx)
		case StageStartService:
			res = o.startService(ctx)
		case StageVerifyService:
			res = o.verifyService(ctx)
		}

		o.logger.Info("stage completed",
			"stage", res.Stage,
			"status", res.Status,
			"escalation_used", res.EscalationUsed,
			"detail", res.Detail,
		)
		report.append(res)
	}

	report.finalize()
	o.logger.Info("remediation pass finished",
		"overall", report.Overall,
		"restart_required", report.RestartRequired,
	)
	return report
}

func (o *Orchestrator) stopService(ctx context.Context) StageResult {
	res := StageResult{Stage: StageStopService}
	name := o.cfg.Service.Name

	err := o.svc.Stop(ctx, name, o.cfg.ForceStop)
	switch {
	case err == nil:
		res.Status = Success
		res.Detail = "stop requested and acknowledged"
	case faults.IsNotFound(err):
		res.Status = Skipped
		res.Detail = fmt.Sprintf("service %s is not registered", name)
	case faults.IsTimeout(err):
		res.Status = Failed
		res.Detail = "service did not stop within the configured timeout"
	default:
		res.Status = Failed
		res.Detail = fmt.Sprintf("stop failed: %v", err)
	}
	return res
}

func (o *Orchestrator) clearIndex(ctx context.Context) StageResult {
	res := StageResult{Stage: StageClearIndex}

	set := o.store.Locate()
	outcome, err := o.store.Clear(ctx, set)

	if err != nil && faults.IsPermissionDenied(err) {
		// Escalate once: take ownership of the artifact root and retry.
		// A second failure is terminal for this stage.
		res.EscalationUsed = true
		if escErr := o.perms.TakeOwnership(ctx, set.RootPath); escErr != nil {
			res.Status = Failed
			res.Detail = fmt.Sprintf("clear denied and escalation failed: %v", escErr)
			return res
		}
		outcome, err = o.store.Clear(ctx, set)
	}

	switch {
	case err != nil:
		res.Status = Failed
		res.Detail = fmt.Sprintf("primary index file not cleared: %v", err)
	case outcome.RootMissing:
		res.Status = Skipped
		res.Detail = fmt.Sprintf("index root %s does not exist", set.RootPath)
	case outcome.LogsFailed > 0:
		res.Status = PartialSuccess
		res.Detail = fmt.Sprintf("primary cleared, %d of %d log files not removed",
			outcome.LogsFailed, outcome.LogsFailed+outcome.LogsRemoved)
	default:
		res.Status = Success
		res.Detail = clearDetail(outcome)
	}
	return res
}

func clearDetail(outcome index.ClearResult) string {
	method := "deleted"
	if outcome.PrimaryRenamed {
		method = "renamed"
	}
	return fmt.Sprintf("primary %s, %d log files removed", method, outcome.LogsRemoved)
}

func (o *Orchestrator) reconfigureStartup(ctx context.Context) StageResult {
	res := StageResult{Stage: StageReconfigureStartup}
	name := o.cfg.Service.Name

	err := o.startup.SetStartupMode(ctx, name, service.AutomaticDelayed)
	switch {
	case err == nil:
		res.Status = Success
		res.Detail = "automatic-delayed startup written"
	case faults.IsStoreMissing(err):
		// The fine-grained delayed-start setting does not exist on every
		// host; the service manager's coarse mode API always does.
		if fbErr := o.svc.EnableAutomatic(ctx, name); fbErr != nil {
			res.Status = Failed
			res.Detail = fmt.Sprintf("startup store missing and automatic fallback failed: %v", fbErr)
			return res
		}
		res.Status = PartialSuccess
		res.Detail = "startup store missing; fell back to plain automatic startup"
	default:
		res.Status = Failed
		res.Detail = fmt.Sprintf("startup mode not written: %v", err)
	}
	return res
}

func (o *Orchestrator) startService(ctx context.Context) StageResult {
	res := StageResult{Stage: StageStartService}
	name := o.cfg.Service.Name

	primaryErr := o.svc.Start(ctx, name)
	if primaryErr == nil {
		res.Status = Success
		res.Detail = "started via service manager"
		return res
	}
	o.logger.Warn("primary start failed", "service", name, "error", primaryErr)

	// The alternate mechanism uses a different privilege/IPC channel; it is
	// a distinct attempt with its own error, never merged with the primary.
	altErr := o.svc.StartAlternate(ctx, name)
	if altErr == nil {
		res.Status = Success
		res.Detail = fmt.Sprintf("primary start failed (%v); started via direct execution", primaryErr)
		return res
	}
	o.logger.Warn("alternate start failed", "service", name, "error", altErr)

	// Last resort before giving up: administrative index reset, then one
	// more primary start.
	if resetErr := o.repair.ResetIndex(ctx); resetErr != nil {
		res.Status = Failed
		if faults.IsRepairUnavailable(resetErr) {
			o.logger.Warn("administrative reset interface unavailable", "error", resetErr)
			res.Detail = fmt.Sprintf(
				"both start mechanisms failed (%v; %v); administrative reset unavailable",
				primaryErr, altErr)
		} else {
			res.Detail = fmt.Sprintf(
				"both start mechanisms failed (%v; %v); administrative reset failed: %v",
				primaryErr, altErr, resetErr)
		}
		return res
	}

	if retryErr := o.svc.Start(ctx, name); retryErr != nil {
		res.Status = Failed
		res.Detail = fmt.Sprintf("start still failing after administrative reset: %v", retryErr)
		return res
	}

	res.Status = Success
	res.Detail = "started after administrative index reset"
	return res
}

// verifyService reads fresh live state; nothing from earlier stages is
// trusted, because the service can change state outside this tool's control
// between stages.
func (o *Orchestrator) verifyService(ctx context.Context) StageResult {
	res := StageResult{Stage: StageVerifyService}
	name := o.cfg.Service.Name

	st, err := o.svc.Query(ctx, name)
	switch {
	case err != nil:
		res.Status = Failed
		res.Detail = fmt.Sprintf("verification query failed: %v", err)
	case st.Run != service.Running:
		res.Status = Failed
		res.Detail = fmt.Sprintf("service is %s, not running", st.Run)
	default:
		res.Status = Success
		res.Detail = "service is running"
	}
	return res
}
