package tables

import "golang.org/x/xerrors"

// Error kinds matched with xerrors.Is. Schema problems mean the upstream
// feature-extraction output does not carry the columns an experiment needs;
// read problems mean the file itself is unreadable or malformed.
var (
	ErrSchema = xerrors.New("dataset schema error")
	ErrRead   = xerrors.New("dataset read error")
)
