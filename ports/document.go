package ports

import (
	"gnnreport/domain/layout"
)

// DocumentEngine turns a flowable story into a paginated PDF file
type DocumentEngine interface {
	// Render lays out the story and writes the document to outPath
	Render(story []layout.Flowable, outPath string) error
}
