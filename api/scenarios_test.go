package api

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios_List(t *testing.T) {
	_, router := newTestHandler(t)

	rec := do(t, router, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]ScenarioDTO](t, rec)
	require.Len(t, list, len(scenarioLoaders))
	for _, s := range list {
		assert.Contains(t, scenarioLoaders, s.ID, "every listed scenario has a loader")
	}

	rec = do(t, router, http.MethodGet, "/api/scenarios/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

func TestScenarios_LoadThenGenerate(t *testing.T) {
	// GIVEN: The two-physicians scenario loaded for March 2025
	// WHEN: Generating March
	// THEN: Same totals as a hand-entered setup

	_, router := newTestHandler(t)

	rec := do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "two-physicians", Month: 3, Year: 2025})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/scenarios/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "two-physicians", decode[ScenarioDTO](t, rec).ID)

	resp := generateMarch(t, router)
	assert.Equal(t, 110, resp.Statistics.FilledSlots)
	require.NotNil(t, resp.Days[0].Box3.Morning)
	assert.Equal(t, "Bruno Conti", resp.Days[0].Box3.Morning.PhysicianName)
}

func TestScenarios_EveryLoaderGenerates(t *testing.T) {
	for id := range scenarioLoaders {
		t.Run(id, func(t *testing.T) {
			_, router := newTestHandler(t)
			rec := do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: id, Month: 3, Year: 2025})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			resp := generateMarch(t, router)
			stats := resp.Statistics
			assert.Equal(t, stats.TotalSlots, stats.FilledSlots+stats.CoverageGap)
			assert.Positive(t, stats.FilledSlots)
		})
	}
}

func TestScenarios_LeaveRotations(t *testing.T) {
	h, router := newTestHandler(t)

	rec := do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "leave-rotations", Month: 3, Year: 2025})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	ctx := context.Background()
	periods, err := h.Store.GetLeavePeriods(ctx, "med-001")
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.True(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC).Equal(periods[0].Start), periods[0].Start)

	rotations, err := h.Store.ListRotations(ctx, testEnv)
	require.NoError(t, err)
	require.Len(t, rotations, 1)
	assert.Equal(t, "med-005", string(rotations[0].PhysicianID))

	// med-001 is on leave March 10-14: none of its cells fall in that window.
	resp := generateMarch(t, router)
	for _, day := range resp.Days[9:14] {
		for _, box := range []BoxDTO{day.Box1, day.Box2, day.Box3} {
			for _, slot := range []*SlotDTO{box.Morning, box.Afternoon, box.Night} {
				if slot != nil {
					assert.NotEqual(t, "med-001", slot.PhysicianID, day.Date)
				}
			}
		}
	}
}

func TestScenarios_LoadErrorsAndReset(t *testing.T) {
	h, router := newTestHandler(t)

	rec := do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "pronto-soccorso", Month: 14, Year: 2025})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "pronto-soccorso", Month: 3, Year: 2025})
	require.Equal(t, http.StatusOK, rec.Code)

	physicians, err := h.Store.ListPhysicians(context.Background(), testEnv)
	require.NoError(t, err)
	assert.Len(t, physicians, 4)

	rec = do(t, router, http.MethodPost, "/api/scenarios/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	physicians, err = h.Store.ListPhysicians(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, physicians)
}

func TestDraftScheduler_RunNow(t *testing.T) {
	// GIVEN: Physicians in one environment and a clock in February 2025
	// WHEN: Running the scheduler twice
	// THEN: March is drafted once, the second run skips it

	h, router := newTestHandler(t)
	seedTwoPhysicians(t, router)

	ds := NewDraftScheduler(h.Store, h.Generator)
	ds.Now = func() time.Time { return time.Date(2025, time.February, 15, 9, 0, 0, 0, time.UTC) }

	assert.Equal(t, 1, ds.RunNow(context.Background()))

	rec := do(t, router, http.MethodGet, "/api/rosters/2025/3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 110, decode[RosterResponse](t, rec).Statistics.FilledSlots)

	assert.Equal(t, 0, ds.RunNow(context.Background()))

	ds.LookaheadMonths = 2
	assert.Equal(t, 1, ds.RunNow(context.Background()), "April is new")

	assert.True(t, time.Date(2025, time.February, 15, 15, 0, 0, 0, time.UTC).Equal(ds.GetNextRunTime()))
}

func TestDraftScheduler_DisabledStartIsNoop(t *testing.T) {
	h, _ := newTestHandler(t)
	ds := NewDraftScheduler(h.Store, h.Generator)
	ds.Start()
	assert.Nil(t, ds.ticker)
	ds.Stop()
}
