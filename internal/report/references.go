package report

import (
	"gnnreport/domain/layout"
	"gnnreport/internal"
	"gnnreport/internal/params"
)

// citations referenced from the assessment narratives
var citations = []string{
	"Cohen, J. 1960. \"A coefficient of agreement for nominal scales.\" " +
		"Educational and Psychological Measurement 20: 37-46.",

	"Kennedy, RE, Z Yang and WB Cohen. 2010. \"Detecting trends in forest " +
		"disturbance and recovery using yearly Landsat time series: 1. " +
		"Landtrendr -- Temporal segmentation algorithms.\" Remote Sensing " +
		"of Environment 114(2010): 2897-2910.",

	"Ohmann, JL, MJ Gregory and HM Roberts. 2014 (in press). \"Scale " +
		"considerations for integrating forest inventory plot data and " +
		"satellite image data for regional forest mapping.\" Remote " +
		"Sensing of Environment.",

	"O'Neil, TA, KA Bettinger, M Vander Heyden, BG Marcot, C Barrett, " +
		"TK Mellen, WM Vanderhaegen, DH Johnson, PJ Doran, L Wunder, and " +
		"KM Boula. 2001. \"Structural conditions and habitat elements of " +
		"Oregon and Washington. Pages 115-139 in: Johnson, DH and TA " +
		"O'Neil, editors. 2001. \"Wildlife-habitat relationships in Oregon " +
		"and Washington.\" Oregon State University Press, Corvallis, OR.",
}

// References closes the report with the citation list
type References struct {
	p   params.Params
	log *internal.Logger
}

func NewReferences(p params.Params, log *internal.Logger) *References {
	return &References{p: p, log: log}
}

func (f *References) Name() string { return params.SectionReferences }

func (f *References) Required() []string { return nil }

func (f *References) Figures() ([]FigureJob, error) { return nil, nil }

func (f *References) Run() ([]layout.Flowable, error) {
	story := pageBreak(layout.TemplatePortrait)
	story = append(story,
		makeTitle("**References**"),
		layout.Spacer{Height: 0.1 * layout.Inch},
	)
	for _, citation := range citations {
		story = append(story,
			layout.Paragraph{Text: citation, Style: "body"},
			layout.Spacer{Height: 0.10 * layout.Inch},
		)
	}
	return story, nil
}

func (f *References) CleanUp() {}
