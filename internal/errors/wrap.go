package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Re-exported constructors and inspectors from cockroachdb/errors.
var (
	New         = crdb.New
	Newf        = crdb.Newf
	Wrap        = crdb.Wrap
	Wrapf       = crdb.Wrapf
	WithHint    = crdb.WithHint
	WithDetail  = crdb.WithDetail
	Mark        = crdb.Mark
	Is          = crdb.Is
	As          = crdb.As
	Join        = crdb.Join
	GetAllHints = crdb.GetAllHints
)
