package model

import (
	"encoding/json"

	"go-ml.dev/pkg/iokit"
	"go-ml.dev/pkg/zorros"
	"path/filepath"
)

/*
Memorize stores a fitted model as JSON through an iokit output, committing
only on a complete write so a crashed run never leaves a torn artifact.
*/
func Memorize(o iokit.Output, m PredictionModel) error {
	wh, err := o.Create()
	if err != nil {
		return zorros.Trace(err)
	}
	defer wh.End()
	enc := json.NewEncoder(wh)
	enc.SetIndent("", "  ")
	if err = enc.Encode(m); err != nil {
		return zorros.Trace(err)
	}
	if err = wh.Commit(); err != nil {
		return zorros.Trace(err)
	}
	return nil
}

// Path resolves a relative model file name into the shared cache directory.
func Path(s string) string {
	if filepath.IsAbs(s) {
		return s
	}
	return iokit.CacheFile(filepath.Join("radiomics-ki67", "Models", s))
}
