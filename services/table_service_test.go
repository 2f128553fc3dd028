package services_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mymichelin/momentos-app/config"
	"github.com/mymichelin/momentos-app/models"
	"github.com/mymichelin/momentos-app/services"
	"github.com/mymichelin/momentos-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// setupStore -> fresh store over a private in-memory archive DB
func setupStore(t *testing.T) *services.Store {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.HistoricalService{}, &models.Notification{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	seed := config.DefaultSeed()
	return services.NewStore(db, seed.TableNumbers, seed.Menus, seed.Pairings)
}

func TestSelectMenuRoundTrip(t *testing.T) {
	store := setupStore(t)

	table, err := store.SelectMenu("t-10", "m1")
	assert.NoError(t, err)
	assert.Equal(t, "Menu 9 momentos", *table.Menu)
	assert.Equal(t, 7, table.TotalMoments)
	assert.Equal(t, 0, table.CurrentMoment)
	assert.Equal(t, models.StatusIdle, table.Status)
	assert.Empty(t, table.MomentsHistory)
}

func TestSelectMenuUnknownIDIsSilentNoop(t *testing.T) {
	store := setupStore(t)

	table, err := store.SelectMenu("t-10", "does-not-exist")
	assert.NoError(t, err)
	assert.Nil(t, table.Menu)
	assert.Zero(t, table.TotalMoments)
}

func TestReselectMenuRestartsPreServiceWalk(t *testing.T) {
	store := setupStore(t)
	seatTable(t, store, "t-10", "m1")

	// New menu before the first advance: guests and pairing start over
	table, err := store.SelectMenu("t-10", "m2")
	assert.NoError(t, err)
	assert.Equal(t, "Menu 11 momentos", *table.Menu)
	assert.Nil(t, table.Pairing)
	assert.Nil(t, table.Pax)
	assert.False(t, table.Seated())
	assert.Equal(t, models.StepGuests, table.Step())

	_, err = store.RecordSeated("t-10", 3, "EN")
	assert.NoError(t, err)
	_, err = store.SelectPairing("t-10", "À Carta")
	assert.NoError(t, err)
}

func TestSelectMenuLockedOnceStarted(t *testing.T) {
	store := setupStore(t)
	seatTable(t, store, "t-10", "m1")

	_, err := store.AdvanceMoment("t-10")
	assert.NoError(t, err)

	_, err = store.SelectMenu("t-10", "m2")
	assert.ErrorIs(t, err, services.ErrMenuLocked)

	table, _ := store.TableByID("t-10")
	assert.Equal(t, "Menu 9 momentos", *table.Menu)
}

func TestRecordSeatedSentinel(t *testing.T) {
	store := setupStore(t)

	_, err := store.RecordSeated("t-10", 4, "PT")
	assert.ErrorIs(t, err, services.ErrNoMenuSelected)

	_, err = store.SelectMenu("t-10", "m1")
	assert.NoError(t, err)

	table, err := store.RecordSeated("t-10", 4, "PT")
	assert.NoError(t, err)
	assert.Len(t, table.MomentsHistory, 1)
	sentinel := table.MomentsHistory[0]
	assert.Equal(t, models.SeatedMoment, sentinel.MomentNumber)
	assert.Equal(t, "Seated", sentinel.MomentName)
	assert.NotNil(t, sentinel.StartTime)
	assert.NotNil(t, sentinel.ReadyTime)
	assert.NotNil(t, sentinel.FinishTime)
	assert.Equal(t, 4, *table.Pax)
	assert.Equal(t, "PT", *table.Language)

	_, err = store.RecordSeated("t-10", 2, "EN")
	assert.ErrorIs(t, err, services.ErrAlreadySeated)
}

func TestRecordSeatedRejectsInvalidPax(t *testing.T) {
	store := setupStore(t)
	_, err := store.SelectMenu("t-10", "m1")
	assert.NoError(t, err)

	_, err = store.RecordSeated("t-10", 0, "PT")
	assert.ErrorIs(t, err, services.ErrInvalidPax)
}

func TestSelectPairingRequiresSeated(t *testing.T) {
	store := setupStore(t)
	_, err := store.SelectMenu("t-10", "m1")
	assert.NoError(t, err)

	_, err = store.SelectPairing("t-10", "Essencial")
	assert.ErrorIs(t, err, services.ErrNotSeated)

	_, err = store.RecordSeated("t-10", 2, "PT")
	assert.NoError(t, err)

	table, err := store.SelectPairing("t-10", "Essencial")
	assert.NoError(t, err)
	assert.Equal(t, "Essencial", *table.Pairing)
	assert.Equal(t, models.StatusIdle, table.Status)
}

func TestAdvanceRejectedWhilePreparingOrPaused(t *testing.T) {
	store := setupStore(t)
	seatTable(t, store, "t-10", "m1")

	table, err := store.AdvanceMoment("t-10")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, table.Status)

	_, err = store.AdvanceMoment("t-10")
	assert.ErrorIs(t, err, services.ErrKitchenBusy)

	// Status and moment untouched by the rejection
	table, _ = store.TableByID("t-10")
	assert.Equal(t, models.StatusPreparing, table.Status)
	assert.Equal(t, 1, table.CurrentMoment)

	// Paused table cannot advance either
	_, err = store.SelectMenu("t-11", "m1")
	assert.NoError(t, err)
	_, err = store.Pause("t-11")
	assert.NoError(t, err)
	_, err = store.AdvanceMoment("t-11")
	assert.ErrorIs(t, err, services.ErrServicePaused)
}

func TestMarkReadyIdempotence(t *testing.T) {
	store := setupStore(t)
	seatTable(t, store, "t-10", "m1")

	_, err := store.AdvanceMoment("t-10")
	assert.NoError(t, err)

	table, err := store.MarkReady("t-10")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusReady, table.Status)
	firstReady := table.CurrentLog().ReadyTime
	assert.NotNil(t, firstReady)

	_, err = store.MarkReady("t-10")
	assert.ErrorIs(t, err, services.ErrNotPreparing)

	table, _ = store.TableByID("t-10")
	assert.Equal(t, firstReady.UnixNano(), table.CurrentLog().ReadyTime.UnixNano())
}

func TestMarkReadyRequiresPreparation(t *testing.T) {
	store := setupStore(t)
	seatTable(t, store, "t-10", "m1")

	_, err := store.MarkReady("t-10")
	assert.ErrorIs(t, err, services.ErrNotPreparing)
}

func TestPausePolicy(t *testing.T) {
	store := setupStore(t)
	seatTable(t, store, "t-10", "m1")

	// idle -> paused -> idle
	table, err := store.Pause("t-10")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPaused, table.Status)

	_, err = store.Pause("t-10")
	assert.ErrorIs(t, err, services.ErrPauseUnavailable)

	table, err = store.Resume("t-10")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusIdle, table.Status)

	_, err = store.Resume("t-10")
	assert.ErrorIs(t, err, services.ErrNotPaused)

	// Pausing is blocked while the kitchen is preparing and while a
	// plated course awaits pickup.
	_, err = store.AdvanceMoment("t-10")
	assert.NoError(t, err)
	_, err = store.Pause("t-10")
	assert.ErrorIs(t, err, services.ErrPauseUnavailable)

	_, err = store.MarkReady("t-10")
	assert.NoError(t, err)
	_, err = store.Pause("t-10")
	assert.ErrorIs(t, err, services.ErrPauseUnavailable)
}

func TestFinishServiceWithoutStartIsIdempotent(t *testing.T) {
	store := setupStore(t)
	_, err := store.SelectMenu("t-10", "m1")
	assert.NoError(t, err)

	table, err := store.FinishService("t-10")
	assert.NoError(t, err)
	assert.Nil(t, table.Menu)
	assert.Equal(t, models.StatusIdle, table.Status)

	logs, err := store.History()
	assert.NoError(t, err)
	assert.Empty(t, logs)
}

func TestFullServiceWalkthrough(t *testing.T) {
	store := setupStore(t)
	seatTable(t, store, "t-10", "m1")

	table, err := store.AdvanceMoment("t-10")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, table.Status)
	assert.Equal(t, 1, table.CurrentMoment)
	assert.NotNil(t, table.StartTime)
	firstStart := *table.StartTime
	assert.Equal(t, "Crocante de sementes & coalhada", table.CurrentLog().MomentName)

	table, err = store.MarkReady("t-10")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusReady, table.Status)

	table, err = store.AdvanceMoment("t-10")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, table.Status)
	assert.Equal(t, 2, table.CurrentMoment)
	// Original service start survives later advances
	assert.Equal(t, firstStart.UnixNano(), table.StartTime.UnixNano())

	// Previous course was stamped as served on the way out
	var prev *models.MomentLog
	for i := range table.MomentsHistory {
		if table.MomentsHistory[i].MomentNumber == 1 {
			prev = &table.MomentsHistory[i]
		}
	}
	assert.NotNil(t, prev)
	assert.NotNil(t, prev.FinishTime)

	// Ride the remaining courses through the final addressable one
	for moment := 2; moment <= 7; moment++ {
		table, _ = store.TableByID("t-10")
		assert.Equal(t, moment, table.CurrentMoment)
		assert.LessOrEqual(t, table.CurrentMoment, table.TotalMoments)

		_, err = store.MarkReady("t-10")
		assert.NoError(t, err)
		if moment < 7 {
			_, err = store.AdvanceMoment("t-10")
			assert.NoError(t, err)
		}
	}

	// One advance past the final course closes the service
	table, err = store.AdvanceMoment("t-10")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusIdle, table.Status)
	assert.Nil(t, table.Menu)
	assert.Zero(t, table.CurrentMoment)
	assert.Zero(t, table.TotalMoments)
	assert.Nil(t, table.StartTime)
	assert.Empty(t, table.MomentsHistory)

	logs, err := store.History()
	assert.NoError(t, err)
	assert.Len(t, logs, 1)

	archived := logs[0]
	assert.Equal(t, "10", archived.TableNumber)
	assert.Equal(t, "Menu 9 momentos", archived.MenuName)
	assert.Equal(t, "Essencial", *archived.Pairing)
	// Sentinel plus the seven courses, every one fully stamped
	assert.Len(t, archived.MomentsHistory, 8)
	for _, entry := range archived.MomentsHistory {
		assert.NotNil(t, entry.StartTime)
		assert.NotNil(t, entry.ReadyTime)
		assert.NotNil(t, entry.FinishTime)
	}
	assert.False(t, archived.EndTime.Before(archived.StartTime))
}

func TestForcedCloseMidService(t *testing.T) {
	store := setupStore(t)
	seatTable(t, store, "t-10", "m1")

	_, err := store.AdvanceMoment("t-10")
	assert.NoError(t, err)
	_, err = store.MarkReady("t-10")
	assert.NoError(t, err)
	_, err = store.AdvanceMoment("t-10")
	assert.NoError(t, err)

	table, err := store.FinishService("t-10")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusIdle, table.Status)
	assert.Empty(t, table.MomentsHistory)

	logs, err := store.History()
	assert.NoError(t, err)
	assert.Len(t, logs, 1)
	// Sentinel + two started courses
	assert.Len(t, logs[0].MomentsHistory, 3)
}

func TestSetRestriction(t *testing.T) {
	store := setupStore(t)

	table, err := store.SetRestriction("t-10", models.RestrictionAlergia, "marisco")
	assert.NoError(t, err)
	assert.Equal(t, models.RestrictionAlergia, table.Restriction.Type)
	assert.Equal(t, "marisco", table.Restriction.Description)

	// Pending: description without a type is kept
	table, err = store.SetRestriction("t-10", models.RestrictionNone, "a confirmar")
	assert.NoError(t, err)
	assert.Equal(t, models.RestrictionNone, table.Restriction.Type)
	assert.Equal(t, "a confirmar", table.Restriction.Description)

	_, err = store.SetRestriction("t-10", "vegano", "")
	assert.ErrorIs(t, err, services.ErrRestrictionType)
}

func TestUnknownTableIsNoop(t *testing.T) {
	store := setupStore(t)

	_, err := store.AdvanceMoment("t-99")
	assert.ErrorIs(t, err, services.ErrTableNotFound)
	_, err = store.MarkReady("t-99")
	assert.ErrorIs(t, err, services.ErrTableNotFound)
	_, err = store.FinishService("t-99")
	assert.ErrorIs(t, err, services.ErrTableNotFound)
}

func TestNotificationTrailPersisted(t *testing.T) {
	store := setupStore(t)
	seatTable(t, store, "t-10", "m1")

	_, err := store.AdvanceMoment("t-10")
	assert.NoError(t, err)
	_, err = store.MarkReady("t-10")
	assert.NoError(t, err)

	var notifs []models.Notification
	assert.NoError(t, store.DB.Order("id ASC").Find(&notifs).Error)
	// seated -> cozinha, advance -> cozinha, ready -> sala
	assert.Len(t, notifs, 3)
	assert.Equal(t, models.RoleCozinha, notifs[0].TargetRole)
	assert.Equal(t, models.RoleCozinha, notifs[1].TargetRole)
	assert.Equal(t, models.RoleSala, notifs[2].TargetRole)
	assert.Contains(t, notifs[1].Body, "Momento 1&2")
	assert.Contains(t, notifs[2].Body, "Pronto para retirada")
}

// seatTable walks a table to the service step: menu, guests, pairing.
func seatTable(t *testing.T, store *services.Store, tableID, menuID string) {
	t.Helper()
	_, err := store.SelectMenu(tableID, menuID)
	assert.NoError(t, err)
	_, err = store.RecordSeated(tableID, 2, "PT")
	assert.NoError(t, err)
	_, err = store.SelectPairing(tableID, "Essencial")
	assert.NoError(t, err)
}
