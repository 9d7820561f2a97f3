package remedy

import "testing"

func stages(statuses ...Status) []StageResult {
	out := make([]StageResult, len(stageOrder))
	for i, stage := range stageOrder {
		out[i] = StageResult{Stage: stage, Status: statuses[i]}
	}
	return out
}

func TestFinalize(t *testing.T) {
	tests := []struct {
		name        string
		stages      []StageResult
		wantOverall Status
		wantRestart bool
	}{
		{
			"all success",
			stages(Success, Success, Success, Success, Success),
			Success, false,
		},
		{
			"skips do not degrade",
			stages(Skipped, Skipped, Success, Success, Success),
			Success, false,
		},
		{
			"partial stage degrades",
			stages(Success, PartialSuccess, Success, Success, Success),
			PartialSuccess, false,
		},
		{
			"failed stage degrades but verify passes",
			stages(Failed, Success, Success, Success, Success),
			PartialSuccess, false,
		},
		{
			"verify failure dominates",
			stages(Success, Success, Success, Success, Failed),
			Failed, true,
		},
		{
			"verify failure with prior failures",
			stages(Failed, Failed, Failed, Failed, Failed),
			Failed, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Report{Stages: tt.stages}
			report.finalize()
			if report.Overall != tt.wantOverall {
				t.Errorf("Overall = %s, want %s", report.Overall, tt.wantOverall)
			}
			if report.RestartRequired != tt.wantRestart {
				t.Errorf("RestartRequired = %v, want %v", report.RestartRequired, tt.wantRestart)
			}
		})
	}
}

func TestFinalize_EmptyReport(t *testing.T) {
	var report Report
	report.finalize()
	if report.Overall != Failed {
		t.Errorf("Overall = %s, want failed for empty report", report.Overall)
	}
	if !report.RestartRequired {
		t.Error("RestartRequired = false, want true for empty report")
	}
}
