package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"finsmart/internal/storage/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// ManagerTestSuite runs the session lifecycle against an in-memory store
type ManagerTestSuite struct {
	suite.Suite
	db      *sqlite.DB
	clock   *fakeClock
	manager *Manager
	userID  int64
	ctx     context.Context
}

func (suite *ManagerTestSuite) SetupTest() {
	db, err := sqlite.NewDB(":memory:")
	require.NoError(suite.T(), err)
	suite.db = db
	suite.ctx = context.Background()

	user, err := db.CreateUser(suite.ctx, "Ann", "ann@x.com", "hash")
	require.NoError(suite.T(), err)
	suite.userID = user.ID

	suite.clock = &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	suite.manager = NewManager(db).WithClock(suite.clock.Now)
}

func (suite *ManagerTestSuite) TearDownTest() {
	if suite.db != nil {
		suite.db.Close()
	}
}

func (suite *ManagerTestSuite) TestCreateAndResolve() {
	s, err := suite.manager.Create(suite.ctx, suite.userID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.clock.t.Add(Duration), s.ExpiresAt)

	user, err := suite.manager.Resolve(suite.ctx, s.Token)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.userID, user.ID)
}

func (suite *ManagerTestSuite) TestExpiresAfterDuration() {
	s, err := suite.manager.Create(suite.ctx, suite.userID)
	require.NoError(suite.T(), err)

	suite.clock.Advance(Duration - time.Minute)
	_, err = suite.manager.Resolve(suite.ctx, s.Token)
	assert.NoError(suite.T(), err, "session should still be active just before expiry")

	suite.clock.Advance(2 * time.Minute)
	_, err = suite.manager.Resolve(suite.ctx, s.Token)
	assert.ErrorIs(suite.T(), err, ErrNoSession)
}

func (suite *ManagerTestSuite) TestDestroy() {
	s, err := suite.manager.Create(suite.ctx, suite.userID)
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.manager.Destroy(suite.ctx, s.Token))
	_, err = suite.manager.Resolve(suite.ctx, s.Token)
	assert.ErrorIs(suite.T(), err, ErrNoSession)

	assert.NoError(suite.T(), suite.manager.Destroy(suite.ctx, s.Token), "destroying twice is not an error")
	assert.NoError(suite.T(), suite.manager.Destroy(suite.ctx, ""))
}

func (suite *ManagerTestSuite) TestResolveMissingToken() {
	_, err := suite.manager.Resolve(suite.ctx, "")
	assert.ErrorIs(suite.T(), err, ErrNoSession)

	_, err = suite.manager.Resolve(suite.ctx, "unknown")
	assert.ErrorIs(suite.T(), err, ErrNoSession)
}

func (suite *ManagerTestSuite) TestSweep() {
	old, err := suite.manager.Create(suite.ctx, suite.userID)
	require.NoError(suite.T(), err)

	suite.clock.Advance(Duration + time.Hour)
	fresh, err := suite.manager.Create(suite.ctx, suite.userID)
	require.NoError(suite.T(), err)

	removed, err := suite.manager.Sweep(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), removed)

	_, err = suite.manager.Resolve(suite.ctx, old.Token)
	assert.ErrorIs(suite.T(), err, ErrNoSession)
	_, err = suite.manager.Resolve(suite.ctx, fresh.Token)
	assert.NoError(suite.T(), err)
}

func (suite *ManagerTestSuite) TestResolveStoreFailure() {
	s, err := suite.manager.Create(suite.ctx, suite.userID)
	require.NoError(suite.T(), err)
	suite.db.Close()

	_, err = suite.manager.Resolve(suite.ctx, s.Token)
	require.Error(suite.T(), err)
	assert.False(suite.T(), errors.Is(err, ErrNoSession), "store failures are not reported as missing sessions")
	suite.db = nil
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}
