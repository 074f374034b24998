package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okanuzun/installment-display-service/internal/model"
)

func testRenderer() *Renderer {
	return NewRenderer("/assets", func(amount float64) string {
		return fmt.Sprintf(`<span class="amount">%.2f TL</span>`, amount)
	})
}

func twoBankResult() *model.InstallmentResult {
	return &model.InstallmentResult{
		Status: "success",
		Plans: []model.InstallmentPlan{
			{
				BankName:       "Garanti",
				CardFamilyName: "Bonus",
				Options: []model.InstallmentOption{
					{InstallmentCount: 3, InstallmentAmount: 340, TotalAmount: 1020},
					{InstallmentCount: 6, InstallmentAmount: 175, TotalAmount: 1050},
					{InstallmentCount: 9, InstallmentAmount: 120, TotalAmount: 1080},
				},
			},
			{
				BankName:       "Yapı Kredi",
				CardFamilyName: "World Card",
				Options: []model.InstallmentOption{
					{InstallmentCount: 3, InstallmentAmount: 345, TotalAmount: 1035},
					{InstallmentCount: 6, InstallmentAmount: 180, TotalAmount: 1080},
					{InstallmentCount: 9, InstallmentAmount: 125, TotalAmount: 1125},
				},
			},
		},
	}
}

func TestInstallmentTable_Empty(t *testing.T) {
	html, err := testRenderer().InstallmentTable(&model.InstallmentResult{Status: "success"})
	require.NoError(t, err)
	assert.Contains(t, html, "iyzico-no-installments")
	assert.NotContains(t, html, "iyzico-bank-card")

	html, err = testRenderer().InstallmentTable(nil)
	require.NoError(t, err)
	assert.Contains(t, html, "iyzico-no-installments")
}

func TestInstallmentTable_CardsAndRows(t *testing.T) {
	html, err := testRenderer().InstallmentTable(twoBankResult())
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(html, `class="iyzico-bank-card"`))
	assert.Equal(t, 2, strings.Count(html, "<tbody>"))
	// 3 options per bank, one row each, plus 2 header rows.
	assert.Equal(t, 8, strings.Count(html, "<tr>"))

	assert.Contains(t, html, "/assets/images/Bonus.png")
	assert.Contains(t, html, "/assets/images/World.png")
	assert.Contains(t, html, `<span class="amount">340.00 TL</span>`)
	assert.Contains(t, html, `<span class="amount">1020.00 TL</span>`)
}

func TestInstallmentTable_PreservesOptionOrder(t *testing.T) {
	result := twoBankResult()
	// Deliberately unsorted input must come out in the same order.
	result.Plans[0].Options = []model.InstallmentOption{
		{InstallmentCount: 9, InstallmentAmount: 120, TotalAmount: 1080},
		{InstallmentCount: 1, InstallmentAmount: 1000, TotalAmount: 1000},
		{InstallmentCount: 6, InstallmentAmount: 175, TotalAmount: 1050},
	}

	html, err := testRenderer().InstallmentTable(result)
	require.NoError(t, err)

	nine := strings.Index(html, "<td>9</td>")
	one := strings.Index(html, "<td>1</td>")
	six := strings.Index(html, "<td>6</td>")
	require.True(t, nine >= 0 && one >= 0 && six >= 0)
	assert.True(t, nine < one && one < six, "row order must match input order")
}

func TestInstallmentTable_EscapesDynamicText(t *testing.T) {
	result := &model.InstallmentResult{
		Plans: []model.InstallmentPlan{
			{
				BankName:       `<script>alert(1)</script>`,
				CardFamilyName: `"><img src=x onerror=alert(1)>`,
				Options:        []model.InstallmentOption{{InstallmentCount: 1, InstallmentAmount: 100, TotalAmount: 100}},
			},
		},
	}

	html, err := testRenderer().InstallmentTable(result)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "<img src=x")
}

func TestInstallmentTable_PlaceholderLogo(t *testing.T) {
	result := &model.InstallmentResult{
		Plans: []model.InstallmentPlan{
			{
				BankName:       "Some Bank",
				CardFamilyName: "Unknown Family",
				Options:        []model.InstallmentOption{{InstallmentCount: 1, InstallmentAmount: 100, TotalAmount: 100}},
			},
		},
	}

	html, err := testRenderer().InstallmentTable(result)
	require.NoError(t, err)
	assert.Contains(t, html, `class="bank-logo-default"`)
	assert.NotContains(t, html, "/assets/images/")
}

func TestResolveLogo(t *testing.T) {
	cases := []struct {
		family string
		want   string
	}{
		{"Bonus", "Bonus.png"},
		{"BONUS PLUS", "Bonus.png"},
		{"Axess", "Axess.png"},
		{"Maximum", "Maximum.png"},
		{"Paraf", "Paraf.png"},
		{"CardFinans", "Cardfinans.png"},
		{"Advantage", "Advantage.png"},
		{"World Card", "World.png"},
		{"Sağlam Kart", "SaglamKart.png"},
		{"Saglam Kart", "SaglamKart.png"},
		{"Bankkart Combo", "BankkartCombo.png"},
		{"QNB", "QNB-CC.png"},
		{"Acc Card", "QNB-CC.png"},
		{"Something Else", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ResolveLogo("any bank", tc.family), "family %q", tc.family)
	}
}

func TestResolveLogo_FirstMatchWins(t *testing.T) {
	// "Bonus World" contains two patterns, the earlier one in the priority
	// list must win.
	assert.Equal(t, "Bonus.png", ResolveLogo("x", "Bonus World"))
	// "World Card" loosely ends with letters of "cc"? It must still resolve
	// to world because world is checked before qnb/cc.
	assert.Equal(t, "World.png", ResolveLogo("x", "World Card"))
}
