package handlers

import (
	"librarium/internal/infra"
	"librarium/internal/pkg/errs"
)

// mapRepoErr translates repository error kinds into the sentinels the
// edge layers switch on. notFound names the aggregate the caller was
// looking for.
func mapRepoErr(err error, notFound error) error {
	if err == nil {
		return nil
	}
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, notFound)
	case infra.IsKind(err, infra.KindStaleWrite):
		return errs.Mark(err, errs.ErrStaleWrite)
	default:
		return err
	}
}
