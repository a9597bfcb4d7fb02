package analysis

import (
	"msmeinsights/domain/report"
	"msmeinsights/domain/table"
)

// Banner text for the validator notices
const (
	MsgFullMissing        = "Could not load full dataset."
	MsgExplanationMissing = "No explained anomalies file loaded. Some insights may be missing."
	MsgPredictionMissing  = "No prediction results file loaded. Accuracy analysis may be missing."
)

// Validation is the feasibility decision for one render pass. Each input
// degrades independently; only an empty FullTraffic table is fatal.
type Validation struct {
	Functional      bool
	HasExplanations bool
	HasPredictions  bool
	Notices         []report.Notice
}

// Validate decides what the pass can compute from the loaded tables
func Validate(full, expl, pred *table.Table) Validation {
	if full.IsEmpty() {
		return Validation{
			Notices: []report.Notice{{Level: report.NoticeError, Message: MsgFullMissing}},
		}
	}

	v := Validation{
		Functional:      true,
		HasExplanations: !expl.IsEmpty(),
		HasPredictions:  !pred.IsEmpty(),
	}
	if !v.HasExplanations {
		v.Notices = append(v.Notices, report.Notice{Level: report.NoticeWarning, Message: MsgExplanationMissing})
	}
	if !v.HasPredictions {
		v.Notices = append(v.Notices, report.Notice{Level: report.NoticeWarning, Message: MsgPredictionMissing})
	}
	return v
}
