package controllers_test

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"skillpath/backend/models"
)

func seedRoadmapWithModules(t *testing.T, db *gorm.DB, orders ...int) models.Roadmap {
	t.Helper()

	roadmap := models.Roadmap{Title: "Rust Basics"}
	for _, order := range orders {
		roadmap.Modules = append(roadmap.Modules, models.Module{
			Title:         fmt.Sprintf("Module %d", order),
			SequenceOrder: order,
		})
	}
	require.NoError(t, db.Create(&roadmap).Error)
	return roadmap
}

func addModulePath(roadmap models.Roadmap) string {
	return fmt.Sprintf("/api/admin/roadmaps/%d/modules", roadmap.ID)
}

func TestAddModuleAssignsUniqueOrderAfterRemoval(t *testing.T) {
	app, db, cfg := newTestApp(t)
	_, token := createTestUser(t, db, cfg, "curator", "admin")
	roadmap := seedRoadmapWithModules(t, db, 1, 2, 3)

	// Remove the highest-ordered module. A COUNT-based order would assign 3
	// again and collide with the removed row's unique (roadmap, order) key.
	require.NoError(t, db.Delete(&roadmap.Modules[2]).Error)

	resp, body := doJSONRequest(t, app, "POST", addModulePath(roadmap), token, fiber.Map{
		"title": "Ownership",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	module := body["module"].(map[string]interface{})
	assert.Equal(t, float64(4), module["SequenceOrder"])

	// Remove a middle module and add again; orders must stay distinct.
	require.NoError(t, db.Delete(&roadmap.Modules[1]).Error)

	resp, body = doJSONRequest(t, app, "POST", addModulePath(roadmap), token, fiber.Map{
		"title": "Borrowing",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	module = body["module"].(map[string]interface{})
	assert.Equal(t, float64(5), module["SequenceOrder"])

	var live []models.Module
	require.NoError(t, db.Where("roadmap_id = ?", roadmap.ID).Find(&live).Error)
	seen := make(map[int]bool, len(live))
	for _, m := range live {
		assert.False(t, seen[m.SequenceOrder], "duplicate order %d", m.SequenceOrder)
		seen[m.SequenceOrder] = true
	}
}

func TestAddModuleRejectsNonAdmin(t *testing.T) {
	app, db, cfg := newTestApp(t)
	_, token := createTestUser(t, db, cfg, "learner", "user")
	roadmap := seedRoadmapWithModules(t, db, 1)

	resp, _ := doJSONRequest(t, app, "POST", addModulePath(roadmap), token, fiber.Map{
		"title": "Sneaky",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
