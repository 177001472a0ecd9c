package order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/promptcart/promptcart/internal/domain/site"
)

func TestAssemblePrompt_FullLayout(t *testing.T) {
	cfg := &site.Configuration{
		ID:          "s1",
		Name:        "Juliette's Crochet",
		Description: "A cozy shop for handmade crochet pieces.",
		SiteTypeID:  "shop",
	}
	items := []ReconciledItem{
		{ProductID: "p1", ProductName: "Gallery", PromptFragment: "Generate a photo gallery with a masonry layout."},
		{ProductID: "p2", ProductName: "Contact Form", PromptFragment: "Generate a contact form with name, email and message fields."},
	}

	got := AssemblePrompt(cfg, items)

	want := "# Website: Juliette's Crochet\n\n" +
		"A cozy shop for handmade crochet pieces.\n\n" +
		"## Gallery\n\n" +
		"Generate a photo gallery with a masonry layout.\n\n" +
		"## Contact Form\n\n" +
		"Generate a contact form with name, email and message fields.\n"
	assert.Equal(t, want, got)
}

func TestAssemblePrompt_Idempotent(t *testing.T) {
	cfg := &site.Configuration{ID: "s1", Name: "Shop", Description: "desc", SiteTypeID: "t"}
	items := []ReconciledItem{
		{ProductName: "A", PromptFragment: "alpha"},
		{ProductName: "B", PromptFragment: "beta"},
	}

	first := AssemblePrompt(cfg, items)
	second := AssemblePrompt(cfg, items)

	assert.Equal(t, first, second, "identical inputs must produce byte-identical text")
}

func TestAssemblePrompt_SkipsFragmentlessItems(t *testing.T) {
	items := []ReconciledItem{
		{ProductName: "Plain", PromptFragment: ""},
		{ProductName: "Fancy", PromptFragment: "Add sparkles."},
		{ProductName: "Blank", PromptFragment: "   \n"},
	}

	got := AssemblePrompt(nil, items)

	assert.Equal(t, "## Fancy\n\nAdd sparkles.\n", got)
	assert.NotContains(t, got, "Plain")
	assert.NotContains(t, got, "Blank")
}

func TestAssemblePrompt_NoSiteConfiguration(t *testing.T) {
	items := []ReconciledItem{{ProductName: "Hero", PromptFragment: "Generate a hero banner."}}

	got := AssemblePrompt(nil, items)

	assert.Equal(t, "## Hero\n\nGenerate a hero banner.\n", got)
}

func TestAssemblePrompt_SiteWithoutDescription(t *testing.T) {
	cfg := &site.Configuration{ID: "s1", Name: "Bare", SiteTypeID: "t"}

	got := AssemblePrompt(cfg, nil)

	assert.Equal(t, "# Website: Bare\n", got)
}

func TestAssemblePrompt_Empty(t *testing.T) {
	assert.Equal(t, "", AssemblePrompt(nil, nil))
}

func TestAssemblePrompt_PreservesItemOrder(t *testing.T) {
	items := []ReconciledItem{
		{ProductName: "Third", PromptFragment: "c"},
		{ProductName: "First", PromptFragment: "a"},
		{ProductName: "Second", PromptFragment: "b"},
	}

	got := AssemblePrompt(nil, items)

	want := "## Third\n\nc\n\n## First\n\na\n\n## Second\n\nb\n"
	assert.Equal(t, want, got)
}
