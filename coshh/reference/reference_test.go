package reference

import (
	"SafetyAgents/entity"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeveritiesForCodes_TakesMaxPerRoute(t *testing.T) {
	got := SeveritiesForCodes([]string{"H315", "H334", "H999"})
	assert.Equal(t, entity.RouteSeverities{Inhalation: 4, SkinEye: 2}, got)
}

func TestSeveritiesForCodes_NormalizesCodes(t *testing.T) {
	got := SeveritiesForCodes([]string{" h330 "})
	assert.Equal(t, 5, got.Inhalation)
}

func TestSeveritiesForCodes_Empty(t *testing.T) {
	assert.Equal(t, entity.RouteSeverities{}, SeveritiesForCodes(nil))
}

func TestControlsForCodes(t *testing.T) {
	codes := []string{"P280", "P261", "P280", "P999", "P304+P340"}

	all := ControlsForCodes(codes, TagAny)
	require.Len(t, all, 3)
	assert.Equal(t, "P280", all[0].Code)
	assert.Equal(t, "P261", all[1].Code)
	assert.Equal(t, "P304+P340", all[2].Code)
	assert.Equal(t, entity.HierarchyPPE, all[0].Hierarchy)
	assert.Equal(t, "P280", all[0].Source)

	vent := ControlsForCodes(codes, TagVentilation)
	require.Len(t, vent, 1)
	assert.Equal(t, "P261", vent[0].Code)
}

func TestSurveillanceFor(t *testing.T) {
	tests := []struct {
		name      string
		substance string
		cas       string
		want      string
	}{
		{"cas match", "Desmodur T80", "584-84-9", "Isocyanates (all types)"},
		{"keyword match", "Toluene Diisocyanate (TDI)", "", "Isocyanates (all types)"},
		{"table name match", "Asbestos", "", "Asbestos"},
		{"whole word lead", "Lead sheet", "", "Lead and lead compounds"},
		{"solder keyword", "Rosin cored solder wire", "", "Rosin-based solder flux fume (colophony)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := SurveillanceFor(tt.substance, tt.cas)
			require.NotNil(t, req)
			assert.Equal(t, tt.want, req.Substance)
			assert.Equal(t, tt.substance, req.MatchedFor)
		})
	}
}

func TestSurveillanceFor_NoMatch(t *testing.T) {
	assert.Nil(t, SurveillanceFor("Unleaded petrol", ""))
	assert.Nil(t, SurveillanceFor("Sodium chloride", "7647-14-5"))
	assert.Nil(t, SurveillanceFor("Pb", ""))
}

func TestSurveillanceFor_ReturnsCopy(t *testing.T) {
	a := SurveillanceFor("TDI", "584-84-9")
	require.NotNil(t, a)
	a.Methods[0] = "changed"

	b := SurveillanceFor("TDI", "584-84-9")
	assert.NotEqual(t, "changed", b.Methods[0])
}

func TestIsInhalationHazard(t *testing.T) {
	assert.True(t, IsInhalationHazard("Respiratory sensitiser"))
	assert.True(t, IsInhalationHazard("Welding FUME"))
	assert.False(t, IsInhalationHazard("Skin corrosion"))
}

func TestSubstanceHasInhalationHazard(t *testing.T) {
	byType := &entity.SubstanceRecord{Hazards: []entity.HazardEntry{{Type: "Respiratory sensitiser"}}}
	byCode := &entity.SubstanceRecord{Hazards: []entity.HazardEntry{{Code: "H335"}}}
	skin := &entity.SubstanceRecord{Hazards: []entity.HazardEntry{{Code: "H315", Type: "Skin irritant"}}}

	assert.True(t, SubstanceHasInhalationHazard(byType))
	assert.True(t, SubstanceHasInhalationHazard(byCode))
	assert.False(t, SubstanceHasInhalationHazard(skin))
}

func TestSelectRPE(t *testing.T) {
	assert.Equal(t, 10, SelectRPE(1).APF)
	assert.Equal(t, 10, SelectRPE(10).APF)
	assert.Equal(t, 20, SelectRPE(11).APF)
	assert.Equal(t, 40, SelectRPE(25).APF)
	assert.Equal(t, 2000, SelectRPE(100000).APF)
}

func TestAPFForDescription(t *testing.T) {
	assert.Equal(t, 10, APFForDescription("FFP2 dust mask"))
	assert.Equal(t, 20, APFForDescription("3M half mask with P3 filters"))
	assert.Equal(t, 10, APFForDescription("full face mask, P2 filters"))
	assert.Equal(t, 0, APFForDescription("none"))
}

func TestCatalogSearch(t *testing.T) {
	c := DefaultCatalog()

	tests := []struct {
		text  string
		names []string
	}{
		{"MIG welding stainless steel brackets", []string{"Welding fume - stainless steel"}},
		{"sanding oak worktops", []string{"Hardwood dust"}},
		{"cutting concrete kerbs with a disc cutter", []string{"Respirable crystalline silica dust"}},
		{"cutting sandstone", []string{"Respirable crystalline silica dust"}},
		{"knitting", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			var names []string
			for _, h := range c.SearchByKeyword(tt.text) {
				names = append(names, h.Name)
			}
			assert.Equal(t, tt.names, names)
		})
	}
}

func TestCatalogSearch_AmbiguousReturnsCategory(t *testing.T) {
	got := DefaultCatalog().SearchByKeyword("welding")
	require.Len(t, got, 4)
	for _, h := range got {
		assert.Equal(t, "welding", h.Category)
	}
}

func TestCatalogGetByName(t *testing.T) {
	c := DefaultCatalog()

	h, ok := c.GetByName("hardwood dust")
	require.True(t, ok)
	assert.True(t, h.Carcinogen)
	assert.Equal(t, 5, h.Severity.Inhalation)
	assert.True(t, ProcessHasInhalationHazard(h))

	_, ok = c.GetByName("nope")
	assert.False(t, ok)
}

func TestLoadCatalog_InvalidYAML(t *testing.T) {
	_, err := LoadCatalog([]byte("hazards: [unclosed"))
	assert.Error(t, err)
}
