// Package render turns a normalized installment result into the HTML
// fragment shown to shoppers. Rendering is a pure function of the data: no
// sorting, no dedup, no I/O.
package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/okanuzun/installment-display-service/internal/model"
)

//go:embed templates/installment_table.html
var tableTemplate string

//go:embed templates/no_options.html
var noOptionsTemplate string

var tableTmpl = template.Must(template.New("installment_table").Parse(tableTemplate))

// CurrencyFormatter turns an amount into display text. The catalog's
// formatter may emit markup, so its output is trusted HTML.
type CurrencyFormatter func(amount float64) string

type Renderer struct {
	assetsBaseURL  string
	formatCurrency CurrencyFormatter
}

func NewRenderer(assetsBaseURL string, formatCurrency CurrencyFormatter) *Renderer {
	return &Renderer{assetsBaseURL: assetsBaseURL, formatCurrency: formatCurrency}
}

type planView struct {
	BankName       string
	CardFamilyName string
	LogoURL        string
	Options        []optionView
}

type optionView struct {
	InstallmentCount  int
	InstallmentAmount template.HTML
	TotalAmount       template.HTML
}

type tableData struct {
	Plans []planView
}

// InstallmentTable renders the bank grid for the given result. An empty plan
// list yields the "no options" notice instead. Plans and their options come
// out in exactly the order the provider returned them.
func (r *Renderer) InstallmentTable(result *model.InstallmentResult) (string, error) {
	if result == nil || len(result.Plans) == 0 {
		return noOptionsTemplate, nil
	}

	data := tableData{Plans: make([]planView, 0, len(result.Plans))}
	for _, plan := range result.Plans {
		view := planView{
			BankName:       plan.BankName,
			CardFamilyName: plan.CardFamilyName,
			Options:        make([]optionView, 0, len(plan.Options)),
		}
		if asset := ResolveLogo(plan.BankName, plan.CardFamilyName); asset != "" {
			view.LogoURL = r.assetsBaseURL + "/images/" + asset
		}
		for _, opt := range plan.Options {
			view.Options = append(view.Options, optionView{
				InstallmentCount: opt.InstallmentCount,
				// Currency output comes from the catalog formatter and is
				// already HTML-safe.
				InstallmentAmount: template.HTML(r.formatCurrency(opt.InstallmentAmount)),
				TotalAmount:       template.HTML(r.formatCurrency(opt.TotalAmount)),
			})
		}
		data.Plans = append(data.Plans, view)
	}

	var buf bytes.Buffer
	if err := tableTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render installment table: %w", err)
	}
	return buf.String(), nil
}
