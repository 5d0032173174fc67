// Package seed bootstraps a store: it creates the first users and stores
// the default message templates.
package seed

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophreach/internal/common"
	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/services"
)

// System is the identity seeding acts as. It never exists as a stored user.
var System = &models.Identity{UserID: "system", DisplayName: "Sistema", Role: models.RoleAdmin}

type userCreator interface {
	CreateUser(ctx context.Context, id *models.Identity, req services.CreateUserRequest) (*models.User, error)
}

type templateStore interface {
	List(ctx context.Context, id *models.Identity) ([]models.Template, error)
	Save(ctx context.Context, id *models.Identity, t models.Template) (*models.Template, error)
}

// Seeder prompts on in/out.
type Seeder struct {
	users     userCreator
	templates templateStore
	in        *bufio.Reader
	out       io.Writer
}

func New(users userCreator, templates templateStore, in io.Reader, out io.Writer) *Seeder {
	return &Seeder{users: users, templates: templates, in: bufio.NewReader(in), out: out}
}

// CreateUser asks for name, email, role and password and stores the user.
func (s *Seeder) CreateUser(ctx context.Context) (*models.User, error) {
	name, err := GetSimpleText(s.in, "Name", s.out)
	if err != nil {
		return nil, err
	}
	email, err := GetSimpleText(s.in, "Email", s.out)
	if err != nil {
		return nil, err
	}
	role, err := GetSimpleText(s.in, fmt.Sprintf("Role (%s or %s, empty for %s)", models.RoleAdmin, models.RoleCollaborator, models.RoleCollaborator), s.out)
	if err != nil {
		return nil, err
	}
	pw, err := GetPassword(s.out)
	if err != nil {
		return nil, err
	}
	defer clear(pw)

	u, err := s.users.CreateUser(ctx, System, services.CreateUserRequest{
		Name:     name,
		Email:    email,
		Password: string(pw),
		Role:     role,
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(s.out, "Created %s %s (%s)\n", u.Role, u.Email, u.ID)
	return u, nil
}

// Templates stores the default templates that are not stored yet and
// returns how many were added.
func (s *Seeder) Templates(ctx context.Context) (int, error) {
	stored, err := s.templates.List(ctx, System)
	if err != nil {
		return 0, err
	}
	have := make(map[string]bool, len(stored))
	for _, t := range stored {
		have[t.ID] = true
	}

	added := 0
	for _, t := range services.DefaultTemplates() {
		if have[t.ID] {
			continue
		}
		if _, err := s.templates.Save(ctx, System, t); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// Run seeds templates and then creates users until the operator answers
// anything but "y". A conflicting email is reported and the prompt repeats.
func (s *Seeder) Run(ctx context.Context) error {
	n, err := s.Templates(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Stored %d default templates\n", n)

	for {
		if _, err := s.CreateUser(ctx); err != nil {
			if !errors.Is(err, common.ErrConflict) && !errors.Is(err, common.ErrValidation) {
				return err
			}
			fmt.Fprintf(s.out, "Not created: %v\n", err)
		}
		more, err := GetSimpleText(s.in, "Create another user? (y/N)", s.out)
		if err != nil || more != "y" {
			return nil
		}
	}
}
