package garage

import (
	"context"
	"testing"

	garageRepo "garagedesk/database/repository/garage"
	"garagedesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairOrderWorkflow(t *testing.T) {
	env := setupGarageTest(proPlan)
	ctx := context.Background()
	v := createVehicle(t, env)

	ro, err := env.svc.CreateRepairOrder(ctx, owner, models.RepairOrder{
		VehicleID:   v.ID,
		Description: " Vidange + plaquettes ",
		Tasks:       []models.RepairTask{{Description: "Vidange", Hours: 1, HourlyRate: 60}},
		Parts:       []models.RepairPart{{Name: "Plaquettes", Quantity: 2, UnitPrice: 35.5}},
	})
	require.NoError(t, err)
	assert.Equal(t, "RO-2026-0001", ro.Number)
	assert.Equal(t, models.RepairPending, ro.Status)
	assert.Equal(t, models.PriorityNormal, ro.Priority)
	assert.Equal(t, "Vidange + plaquettes", ro.Description)
	assert.Equal(t, models.RepairCosts{Labor: 60, Parts: 71, Total: 131}, ro.Costs)

	updated, err := env.svc.UpdateRepairOrder(ctx, owner, ro.ID, models.RepairOrder{
		VehicleID: v.ID, Priority: models.PriorityUrgent,
		Tasks: []models.RepairTask{{Description: "Vidange", Hours: 1.5, HourlyRate: 60}},
	})
	require.NoError(t, err)
	assert.Equal(t, ro.Number, updated.Number)
	assert.Equal(t, 90.0, updated.Costs.Total)

	_, err = env.svc.ChangeRepairStatus(ctx, owner, ro.ID, models.RepairWaitingParts)
	require.NoError(t, err)
	done, err := env.svc.ChangeRepairStatus(ctx, owner, ro.ID, models.RepairCompleted)
	require.NoError(t, err)
	require.NotNil(t, done.ClosedAt)
	assert.True(t, done.ClosedAt.Equal(testNow))

	_, err = env.svc.ChangeRepairStatus(ctx, owner, ro.ID, models.RepairInProgress)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = env.svc.UpdateRepairOrder(ctx, owner, ro.ID, models.RepairOrder{VehicleID: v.ID})
	assert.ErrorIs(t, err, ErrNotEditable)

	veh, err := env.svc.GetVehicle(ctx, owner, v.ID)
	require.NoError(t, err)
	kinds := make([]string, 0, len(veh.History))
	for _, e := range veh.History {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []string{EventVehicleCreated, EventRepairOpened, EventRepairStatus, EventRepairStatus}, kinds)
}

func TestCreateRepairOrder_Validation(t *testing.T) {
	env := setupGarageTest(proPlan)
	ctx := context.Background()
	v := createVehicle(t, env)

	_, err := env.svc.CreateRepairOrder(ctx, owner, models.RepairOrder{VehicleID: "ghost"})
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, err = env.svc.CreateRepairOrder(ctx, owner, models.RepairOrder{VehicleID: v.ID, Priority: "asap"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.svc.CreateRepairOrder(ctx, owner, models.RepairOrder{VehicleID: v.ID, Parts: []models.RepairPart{{Name: "Pneu", Quantity: 0}}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	list, err := env.svc.ListRepairOrders(ctx, owner, garageRepo.Query{})
	require.NoError(t, err)
	assert.Empty(t, list)
}
