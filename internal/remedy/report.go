package remedy

// StageName identifies one step of the remediation pipeline.
type StageName string

// Pipeline stages, in execution order.
const (
	StageStopService        StageName = "stop-service"
	StageClearIndex         StageName = "clear-index"
	StageReconfigureStartup StageName = "reconfigure-startup"
	StageStartService       StageName = "start-service"
	StageVerifyService      StageName = "verify-service"
)

// stageOrder is the fixed pipeline sequence. Every run produces exactly one
// result per stage, in this order.
var stageOrder = []StageName{
	StageStopService,
	StageClearIndex,
	StageReconfigureStartup,
	StageStartService,
	StageVerifyService,
}

// Status classifies the outcome of a stage or of the whole run.
type Status string

// Stage and overall statuses.
const (
	Success        Status = "success"
	PartialSuccess Status = "partial-success"
	Failed         Status = "failed"
	Skipped        Status = "skipped"
)

// StageResult records the outcome of one pipeline stage. Immutable once
// produced; results are appended to the report in execution order.
type StageResult struct {
	Stage  StageName `json:"stage"`
	Status Status    `json:"status"`

	// Detail is a human-readable account of what the stage did, including
	// which fallback paths were taken.
	Detail string `json:"detail,omitempty"`

	// EscalationUsed is true when the stage took ownership of a resource to
	// retry a denied operation.
	EscalationUsed bool `json:"escalation_used,omitempty"`
}

// Report is the sole output contract of a remediation run.
type Report struct {
	Stages []StageResult `json:"stages"`

	// Overall is derived from the stage results, never set directly:
	// Failed when verification did not observe the service running,
	// PartialSuccess when verification passed but an earlier stage degraded,
	// Success otherwise.
	Overall Status `json:"overall"`

	// RestartRequired is true when the service could not be brought back
	// and a full OS restart is the documented last resort.
	RestartRequired bool `json:"restart_required"`
}

// append records a stage result.
func (r *Report) append(res StageResult) {
	r.Stages = append(r.Stages, res)
}

// finalize derives Overall and RestartRequired from the recorded stages.
func (r *Report) finalize() {
	if len(r.Stages) == 0 {
		r.Overall = Failed
		r.RestartRequired = true
		return
	}

	verify := r.Stages[len(r.Stages)-1]
	if verify.Stage == StageVerifyService && verify.Status == Failed {
		r.Overall = Failed
		r.RestartRequired = true
		return
	}

	r.Overall = Success
	for _, res := range r.Stages[:len(r.Stages)-1] {
		if res.Status == PartialSuccess || res.Status == Failed {
			r.Overall = PartialSuccess
			break
		}
	}
}
