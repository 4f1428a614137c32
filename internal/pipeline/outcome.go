package pipeline

import (
	"errors"

	"crash-data-audit/internal/model"
)

// Status is the result kind of a cleaning step.
type Status string

const (
	StatusApplied Status = "applied"
	StatusNoOp    Status = "noop"
	StatusFailed  Status = "failed"
)

var (
	ErrUnknownMethod = errors.New("unknown imputation method")
	ErrUnknownStep   = errors.New("unknown cleaning step")
)

// Outcome is what a cleaning step returns. On NoOp and Failed, Dataset is
// the input dataset unchanged.
type Outcome struct {
	Dataset *model.Dataset `json:"-"`
	Status  Status         `json:"status"`
	Message string         `json:"message"`
	Err     error          `json:"-"`

	RowsBefore    int `json:"rowsBefore"`
	RowsAfter     int `json:"rowsAfter"`
	MissingBefore int `json:"missingBefore"`
	MissingAfter  int `json:"missingAfter"`
}

func applied(before, after *model.Dataset, msg string) Outcome {
	return Outcome{
		Dataset:    after,
		Status:     StatusApplied,
		Message:    msg,
		RowsBefore: before.NumRows(),
		RowsAfter:  after.NumRows(),
	}
}

func noop(ds *model.Dataset, msg string) Outcome {
	return Outcome{Dataset: ds, Status: StatusNoOp, Message: msg, RowsBefore: ds.NumRows(), RowsAfter: ds.NumRows()}
}

func failed(ds *model.Dataset, err error, msg string) Outcome {
	return Outcome{Dataset: ds, Status: StatusFailed, Message: msg, Err: err, RowsBefore: ds.NumRows(), RowsAfter: ds.NumRows()}
}
