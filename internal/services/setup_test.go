package services

import (
	"testing"

	"gorm.io/gorm"

	"shallowfind/internal/models"
	"shallowfind/internal/testutil"
)

// testSetup bundles the fixtures most service tests need: a user owning a
// scenario with one investment type and one non-retirement investment.
type testSetup struct {
	db         *gorm.DB
	user       *models.User
	scenario   *models.Scenario
	invType    *models.InvestmentType
	investment *models.Investment
}

func newTestSetup(t *testing.T) *testSetup {
	t.Helper()

	db := testutil.SetupTestDB(t)
	user := testutil.CreateTestUser(t, db)
	scenario := testutil.CreateTestScenario(t, db, user.ID)
	invType := testutil.CreateTestInvestmentType(t, db, scenario.ID)
	investment := testutil.CreateTestInvestment(t, db, scenario.ID, invType.ID, models.TaxStatusNonRetirement)

	return &testSetup{
		db:         db,
		user:       user,
		scenario:   scenario,
		invType:    invType,
		investment: investment,
	}
}

func (ts *testSetup) teardown(t *testing.T) {
	t.Helper()
	testutil.TeardownTestDB(t, ts.db)
}
