package filter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"aquasafi-monitor/internal/domain"
)

func garissaFleet() []domain.WaterPoint {
	return []domain.WaterPoint{
		{ID: 1, Name: "Garissa Main Borehole", Region: "Garissa Township", Status: domain.StatusActive},
		{ID: 2, Name: "Dadaab Community Well", Region: "Dadaab", Status: domain.StatusMaintenance},
		{ID: 3, Name: "Ijara Water Tower", Region: "Ijara", Status: domain.StatusActive},
		{ID: 4, Name: "Sankuri Pump Station", Region: "Garissa Township", Status: domain.StatusOffline},
	}
}

func names(points []domain.WaterPoint) []string {
	out := make([]string, 0, len(points))
	for _, p := range points {
		out = append(out, p.Name)
	}
	return out
}

func TestApplyNoCriteriaReturnsEverythingInOrder(t *testing.T) {
	fleet := garissaFleet()
	got := Apply(fleet, Criteria{Status: All, Region: All})
	require.Equal(t, names(fleet), names(got))
}

func TestApplySearchIsCaseInsensitiveSubstring(t *testing.T) {
	fleet := garissaFleet()

	got := Apply(fleet, Criteria{Search: "garissa", Status: All, Region: All})
	require.Equal(t, []string{"Garissa Main Borehole", "Sankuri Pump Station"}, names(got),
		"search must match name or region, case-insensitively")

	got = Apply(fleet, Criteria{Search: "DADAAB", Status: All, Region: All})
	require.Equal(t, []string{"Dadaab Community Well"}, names(got))
}

func TestApplySearchMatchesNumericID(t *testing.T) {
	got := Apply(garissaFleet(), Criteria{Search: "3", Status: All, Region: All})
	require.Equal(t, []string{"Ijara Water Tower"}, names(got))
}

func TestApplyCriteriaAreANDed(t *testing.T) {
	fleet := garissaFleet()

	got := Apply(fleet, Criteria{Search: "garissa", Status: domain.StatusActive, Region: All})
	require.Equal(t, []string{"Garissa Main Borehole"}, names(got))

	got = Apply(fleet, Criteria{Status: domain.StatusActive, Region: "Garissa Township"})
	require.Equal(t, []string{"Garissa Main Borehole"}, names(got))

	got = Apply(fleet, Criteria{Search: "dadaab", Status: domain.StatusOffline, Region: All})
	require.Empty(t, got)
}

func TestApplyAllAndEmptyAreEquivalentSentinels(t *testing.T) {
	fleet := garissaFleet()
	withAll := Apply(fleet, Criteria{Status: All, Region: All})
	withEmpty := Apply(fleet, Criteria{})
	require.Equal(t, withAll, withEmpty)
}

func TestApplyDoesNotMutateSource(t *testing.T) {
	fleet := garissaFleet()
	original := garissaFleet()

	_ = Apply(fleet, Criteria{Search: "garissa", Status: domain.StatusActive})
	require.Equal(t, original, fleet)
}

func TestApplyEmptyInput(t *testing.T) {
	require.Empty(t, Apply(nil, Criteria{Search: "anything"}))
}

func TestRegionsFirstSeenOrderDistinct(t *testing.T) {
	got := Regions(garissaFleet())
	require.Equal(t, []string{"Garissa Township", "Dadaab", "Ijara"}, got)
}
