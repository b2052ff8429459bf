package app

import (
	"context"

	"github.com/sirupsen/logrus"

	"sisnompeg_admin/internal/domain/employee"
)

// unknownEmployee is shown when no key is available at all.
const unknownEmployee = "-"

// NameResolver turns employee keys into display names. Lookup failures never
// propagate: the raw key is returned and a warning is logged.
type NameResolver struct {
	employees employee.Repository
	log       *logrus.Entry
}

func NewNameResolver(er employee.Repository, log *logrus.Entry) *NameResolver {
	return &NameResolver{employees: er, log: log}
}

// Resolve returns the employee name for nip, or nip itself when it cannot
// be resolved.
func (r *NameResolver) Resolve(ctx context.Context, nip string) string {
	if nip == "" {
		return unknownEmployee
	}
	e, err := r.employees.GetByNIP(ctx, nip)
	if err != nil {
		r.log.WithFields(logrus.Fields{"nip": nip, "reason": err.Error()}).Warn("Failed to resolve employee name, using key")
		return nip
	}
	return e.Nama
}

// ResolveMany resolves all nips with one lookup. Missing keys map to
// themselves.
func (r *NameResolver) ResolveMany(ctx context.Context, nips []string) map[string]string {
	out := make(map[string]string, len(nips))
	want := make([]string, 0, len(nips))
	seen := make(map[string]struct{}, len(nips))
	for _, nip := range nips {
		if nip == "" {
			continue
		}
		out[nip] = nip
		if _, dup := seen[nip]; !dup {
			seen[nip] = struct{}{}
			want = append(want, nip)
		}
	}
	if len(want) == 0 {
		return out
	}

	names, err := r.employees.LookupNames(ctx, want)
	if err != nil {
		r.log.WithFields(logrus.Fields{"nips": want, "reason": err.Error()}).Warn("Failed to resolve employee names, using keys")
		return out
	}
	for _, nip := range want {
		if name, ok := names[nip]; ok {
			out[nip] = name
		} else {
			r.log.WithField("nip", nip).Warn("Employee not found while resolving name, using key")
		}
	}
	return out
}
