package projects_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"folio/internal/projects"
	"folio/internal/testsupport"
)

func createProject(t *testing.T, db *gorm.DB, title string, sortOrder int) *projects.Project {
	t.Helper()
	project := &projects.Project{
		Title:       title,
		Description: "Description for " + title,
		SortOrder:   sortOrder,
	}
	require.NoError(t, projects.Create(db, testsupport.GetLogger(), project))
	return project
}

func TestCreateAndFind(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	category := "SaaS"
	project := &projects.Project{
		Title:        "Ledgerline",
		Description:  "Bookkeeping for freelancers",
		Category:     &category,
		Technologies: []string{"Go", "SQLite"},
		Stats: []projects.Stat{
			{Label: "Users", Value: "1.2k"},
		},
		Sections: []projects.Section{
			{Title: "The build", Content: "Single binary."},
		},
	}
	require.NoError(t, projects.Create(db, testsupport.GetLogger(), project))
	require.NotZero(t, project.ID)

	found, err := projects.FindByID(db, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ledgerline", found.Title)
	assert.Equal(t, []string{"Go", "SQLite"}, found.Technologies)
	require.Len(t, found.Stats, 1)
	assert.Equal(t, "1.2k", found.Stats[0].Value)
	require.Len(t, found.Sections, 1)
	assert.Equal(t, "The build", found.Sections[0].Title)
	require.NotNil(t, found.Category)
	assert.Equal(t, "SaaS", *found.Category)

	t.Run("unknown id", func(t *testing.T) {
		_, err := projects.FindByID(db, 9999)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestListOrder(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	// Same sort_order ties break by creation time, newest first.
	older := createProject(t, db, "older", 1)
	require.NoError(t, db.Model(older).Update("created_at", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)).Error)
	newer := createProject(t, db, "newer", 1)
	require.NoError(t, db.Model(newer).Update("created_at", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)).Error)
	top := createProject(t, db, "top", 0)

	list, err := projects.List(db)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, top.ID, list[0].ID)
	assert.Equal(t, "top", list[0].Title)
	assert.Equal(t, "newer", list[1].Title)
	assert.Equal(t, "older", list[2].Title)
}

func TestSave(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	project := createProject(t, db, "draft", 0)

	project.Title = "published"
	project.Benefits = []string{"saves time"}
	require.NoError(t, projects.Save(db, testsupport.GetLogger(), project))

	found, err := projects.FindByID(db, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "published", found.Title)
	assert.Equal(t, []string{"saves time"}, found.Benefits)
}

func TestDelete(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	project := createProject(t, db, "doomed", 0)

	require.NoError(t, projects.Delete(db, testsupport.GetLogger(), project.ID))
	_, err := projects.FindByID(db, project.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, projects.Delete(db, testsupport.GetLogger(), 9999), gorm.ErrRecordNotFound)
}

func TestReorder(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	a := createProject(t, db, "a", 0)
	b := createProject(t, db, "b", 1)
	c := createProject(t, db, "c", 2)

	require.NoError(t, projects.Reorder(db, testsupport.GetLogger(), []uint{c.ID, a.ID, b.ID}))

	list, err := projects.List(db)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].Title)
	assert.Equal(t, "a", list[1].Title)
	assert.Equal(t, "b", list[2].Title)

	t.Run("unknown ids are skipped", func(t *testing.T) {
		require.NoError(t, projects.Reorder(db, testsupport.GetLogger(), []uint{9999, b.ID, c.ID, a.ID}))

		list, err := projects.List(db)
		require.NoError(t, err)
		assert.Equal(t, "b", list[0].Title)
		assert.Equal(t, "c", list[1].Title)
		assert.Equal(t, "a", list[2].Title)
	})
}
