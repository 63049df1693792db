package merge

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/willibrandon/slnmerge/solution"
)

// ZeroGUID is the identifier of a merge without root folders.
var ZeroGUID = FormatGUID(uuid.Nil)

// FormatGUID renders id in the upper-case braced form solution documents use.
func FormatGUID(id uuid.UUID) string {
	return "{" + strings.ToUpper(id.String()) + "}"
}

// XorGUID folds two identifiers as two independent 64-bit halves.
func XorGUID(a, b uuid.UUID) uuid.UUID {
	var out uuid.UUID
	binary.BigEndian.PutUint64(out[:8], binary.BigEndian.Uint64(a[:8])^binary.BigEndian.Uint64(b[:8]))
	binary.BigEndian.PutUint64(out[8:], binary.BigEndian.Uint64(a[8:])^binary.BigEndian.Uint64(b[8:]))
	return out
}

// SolutionGUID XOR-folds the identifiers of the root folders of projects,
// ordered by name. It returns ZeroGUID when there is no root folder.
func SolutionGUID(projects []solution.Project) (string, error) {
	roots := solution.RootFolders(projects)
	sort.SliceStable(roots, func(i, j int) bool {
		return roots[i].Name() < roots[j].Name()
	})

	acc := uuid.Nil
	for _, folder := range roots {
		id, err := uuid.Parse(strings.Trim(folder.GUID(), "{}"))
		if err != nil {
			return "", fmt.Errorf("folder %q has an invalid GUID %s: %w", folder.Name(), folder.GUID(), err)
		}
		acc = XorGUID(acc, id)
	}
	return FormatGUID(acc), nil
}
