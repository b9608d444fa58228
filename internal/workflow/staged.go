package workflow

import (
	"os"

	"go.uber.org/zap"
)

// StagedFile is an upload the HTTP layer has written to local disk before the
// workflow runs.
type StagedFile struct {
	Path         string
	OriginalName string
	ContentType  string
}

// StagedFiles holds the three attachment slots of an application form. Absent
// slots are nil.
type StagedFiles struct {
	Photo         *StagedFile
	Certification *StagedFile
	Signature     *StagedFile
}

func (f StagedFiles) all() []*StagedFile {
	return []*StagedFile{f.Photo, f.Certification, f.Signature}
}

// Cleanup removes every staged file from disk. Workflows defer it first so
// staged uploads are deleted on every exit path, success or failure.
func (f StagedFiles) Cleanup(log *zap.Logger) {
	for _, sf := range f.all() {
		if sf == nil {
			continue
		}
		if err := os.Remove(sf.Path); err != nil && !os.IsNotExist(err) {
			log.Warn("failed to remove staged upload",
				zap.String("path", sf.Path),
				zap.Error(err))
		}
	}
}
