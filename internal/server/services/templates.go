package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophreach/internal/common"
	"github.com/dmitrijs2005/gophreach/internal/logging"
	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/repositories/repomanager"
)

// Placeholders understood by Render.
const (
	PlaceholderName       = "{NOMBRE}"
	PlaceholderLocality   = "{LOCALIDAD}"
	PlaceholderDate       = "{FECHA_EVENTO}"
	PlaceholderHour       = "{HORA_EVENTO}"
	PlaceholderPlace      = "{LUGAR_EVENTO}"
	PlaceholderAddress    = "{DIRECCION_EVENTO}"
	DefaultMessageID      = "default-whatsapp"
	DefaultCallScriptID   = "default-call-script"
	defaultMessageBody    = "Hola {NOMBRE}, te saluda el equipo de la campaña. Queremos invitarte a nuestro Gran Cierre de Campaña este {FECHA_EVENTO} a las {HORA_EVENTO} en el {LUGAR_EVENTO} ({DIRECCION_EVENTO}). ¡Contamos contigo!"
	defaultCallScriptBody = "Hola, ¿hablo con {NOMBRE}?\n" +
		"Te llamamos del equipo de la campaña. Queremos invitarte personalmente al Gran Cierre de Campaña.\n" +
		"Es este {FECHA_EVENTO} a las {HORA_EVENTO} en el {LUGAR_EVENTO} ({DIRECCION_EVENTO}).\n" +
		"¿Podemos contar con tu asistencia?"
)

// Localities offered by the registration form.
var Localities = []string{
	"Usaquén", "Chapinero", "Santa Fe", "San Cristóbal", "Usme",
	"Tunjuelito", "Bosa", "Kennedy", "Fontibón", "Engativá",
	"Suba", "Barrios Unidos", "Teusaquillo", "Los Mártires", "Antonio Nariño",
	"Puente Aranda", "La Candelaria", "Rafael Uribe Uribe", "Ciudad Bolívar", "Sumapaz",
}

// DefaultTemplates are available even when the Templates table is empty.
func DefaultTemplates() []models.Template {
	return []models.Template{
		{ID: DefaultMessageID, Name: "WhatsApp", Content: defaultMessageBody},
		{ID: DefaultCallScriptID, Name: "Guion de llamada", Content: defaultCallScriptBody},
	}
}

// Catalog is the static reference data clients render forms from.
type Catalog struct {
	Localities    []string              `json:"localities"`
	Roles         []models.Role         `json:"roles"`
	States        []models.State        `json:"states"`
	ActivityKinds []models.ActivityKind `json:"activity_kinds"`
	Event         models.EventInfo      `json:"event"`
	Templates     []models.Template     `json:"templates"`
}

type RenderRequest struct {
	TemplateID string `json:"template_id,omitempty"`
	Content    string `json:"content,omitempty"`
	TargetID   string `json:"target_id"`
}

type RenderResult struct {
	Text string `json:"text"`
}

// TemplateService stores templates and renders them for one contact. It
// never sends anything; delivery is reported back through ApplyOutcome.
type TemplateService struct {
	clock
	repomanager repomanager.RepositoryManager
	event       models.EventInfo
	logger      logging.Logger
}

func NewTemplateService(m repomanager.RepositoryManager, event models.EventInfo, logger logging.Logger) *TemplateService {
	return &TemplateService{clock: defaultClock(), repomanager: m, event: event, logger: logger}
}

func (s *TemplateService) Catalog() Catalog {
	return Catalog{
		Localities:    Localities,
		Roles:         []models.Role{models.RoleAdmin, models.RoleCollaborator},
		States:        models.States,
		ActivityKinds: models.ActivityKinds,
		Event:         s.event,
		Templates:     DefaultTemplates(),
	}
}

// List returns the stored templates.
func (s *TemplateService) List(ctx context.Context, id *models.Identity) ([]models.Template, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	snap, err := s.repomanager.Templates().Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.All(), nil
}

// Save updates the template with t.ID in place, or appends t under a new id.
func (s *TemplateService) Save(ctx context.Context, id *models.Identity, t models.Template) (*models.Template, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" || strings.TrimSpace(t.Content) == "" {
		return nil, common.Validationf("name and content are required")
	}

	snap, err := s.repomanager.Templates().Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if _, addr, ok := snap.ByID(t.ID); ok {
		if err := s.repomanager.Templates().Update(ctx, addr, t); err != nil {
			return nil, err
		}
		return &t, nil
	}

	if t.ID == "" {
		t.ID = s.newID()
	}
	if err := s.repomanager.Templates().Append(ctx, t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Render substitutes the contact and event placeholders of a stored,
// default or inline template. The target is a contact id or a national id.
func (s *TemplateService) Render(ctx context.Context, id *models.Identity, req RenderRequest) (*RenderResult, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}

	content, err := s.content(ctx, req)
	if err != nil {
		return nil, err
	}

	name, locality, nationalID, contactID, err := s.recipient(ctx, req.TargetID)
	if err != nil {
		return nil, err
	}
	if !id.IsAdmin() {
		asg, err := s.repomanager.Assignments().Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		if !asg.Covers(id.UserID, contactID, nationalID) {
			return nil, forbiddenContact(req.TargetID)
		}
	}

	r := strings.NewReplacer(
		PlaceholderName, name,
		PlaceholderLocality, locality,
		PlaceholderDate, s.event.Date,
		PlaceholderHour, s.event.Hour,
		PlaceholderPlace, s.event.Place,
		PlaceholderAddress, s.event.Address,
	)
	return &RenderResult{Text: r.Replace(content)}, nil
}

func (s *TemplateService) content(ctx context.Context, req RenderRequest) (string, error) {
	if req.Content != "" {
		return req.Content, nil
	}
	if req.TemplateID == "" {
		return "", common.Validationf("template_id or content is required")
	}

	snap, err := s.repomanager.Templates().Snapshot(ctx)
	if err != nil {
		return "", err
	}
	if t, _, ok := snap.ByID(req.TemplateID); ok {
		return t.Content, nil
	}
	for _, t := range DefaultTemplates() {
		if t.ID == req.TemplateID {
			return t.Content, nil
		}
	}
	return "", common.NotFoundf("template %s", req.TemplateID)
}

// recipient resolves the placeholder values of a contact, falling back to a
// historical record.
func (s *TemplateService) recipient(ctx context.Context, targetID string) (name, locality, nationalID, contactID string, err error) {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return "", "", "", "", common.Validationf("target_id is required")
	}

	contacts, err := s.repomanager.Contacts().Snapshot(ctx)
	if err != nil {
		return "", "", "", "", err
	}
	if c, _, ok := contacts.ByID(targetID); ok {
		return c.FullName, c.Locality, c.NationalID, c.ID, nil
	}
	if c, _, ok := contacts.ByNationalID(targetID); ok {
		return c.FullName, c.Locality, c.NationalID, c.ID, nil
	}

	base, err := s.repomanager.Base().Snapshot(ctx)
	if err != nil {
		return "", "", "", "", err
	}
	if r, _, ok := base.ByNationalID(targetID); ok {
		return r.FullName, r.Municipality, r.NationalID, "", nil
	}
	return "", "", "", "", common.NotFoundf("contact %s", targetID)
}
