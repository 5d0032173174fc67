package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophreach/internal/common"
	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates_SaveAndList(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	saved, err := e.templates.Save(ctx, admin, models.Template{Name: "Recordatorio", Content: "Hola {NOMBRE}"})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	saved.Content = "Hola {NOMBRE}, te esperamos"
	_, err = e.templates.Save(ctx, admin, *saved)
	require.NoError(t, err)

	list, err := e.templates.List(ctx, carla)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Hola {NOMBRE}, te esperamos", list[0].Content)

	_, err = e.templates.Save(ctx, carla, models.Template{Name: "x", Content: "y"})
	assert.ErrorIs(t, err, common.ErrForbidden)
	_, err = e.templates.Save(ctx, admin, models.Template{Name: " "})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestTemplates_Render(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.seedContact(t, models.Contact{ID: "c-1", NationalID: "11", FullName: "Lucía", Locality: "Suba", State: models.StateNew})
	e.seedBase(t, models.HistoricalRecord{NationalID: "900", FullName: "Rosa", Municipality: "Chía"})
	e.seedAssignment(t, assigned("11", carla.UserID))

	res, err := e.templates.Render(ctx, carla, RenderRequest{Content: "{NOMBRE} de {LOCALIDAD}: {FECHA_EVENTO} {HORA_EVENTO}, {LUGAR_EVENTO} ({DIRECCION_EVENTO})", TargetID: "c-1"})
	require.NoError(t, err)
	assert.Equal(t, "Lucía de Suba: 10 de febrero 5:00 pm, Auditorio El Pacto (Calle 63 # 36 26)", res.Text)

	res, err = e.templates.Render(ctx, admin, RenderRequest{TemplateID: DefaultMessageID, TargetID: "900"})
	require.NoError(t, err)
	assert.Contains(t, res.Text, "Hola Rosa,")
	assert.NotContains(t, res.Text, "{")

	_, err = e.templates.Render(ctx, carla, RenderRequest{TemplateID: DefaultMessageID, TargetID: "900"})
	assert.ErrorIs(t, err, common.ErrForbidden)
	_, err = e.templates.Render(ctx, admin, RenderRequest{TemplateID: "missing", TargetID: "900"})
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = e.templates.Render(ctx, admin, RenderRequest{TargetID: "900"})
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = e.templates.Render(ctx, admin, RenderRequest{Content: "x", TargetID: "404"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCatalog(t *testing.T) {
	c := newEnv(t).templates.Catalog()
	assert.Len(t, c.Localities, 20)
	assert.Len(t, c.States, 9)
	assert.Len(t, c.ActivityKinds, 7)
	assert.Equal(t, "Auditorio El Pacto", c.Event.Place)
	require.Len(t, c.Templates, 2)
	assert.Contains(t, c.Templates[1].Content, PlaceholderName)
}
