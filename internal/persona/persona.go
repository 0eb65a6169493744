// Package persona resolves conversation personas. The chat core only
// consumes the Provider interface; the registry here is a small
// Port-backed implementation seeded with a default pair.
package persona

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rcliao/persona-chat/internal/model"
	"github.com/rcliao/persona-chat/internal/persist"
)

// Provider looks up a persona by id and type. Absent personas are not
// errors; the context builder degrades to a generic instruction.
type Provider interface {
	Get(id string, typ model.PersonaType) (*model.Persona, bool)
}

// Registry is a Port-backed persona provider.
type Registry struct {
	port  persist.Port
	users []model.Persona
	ais   []model.Persona
}

// NewRegistry loads persisted personas, seeding the default pair when
// none exist yet.
func NewRegistry(port persist.Port) (*Registry, error) {
	r := &Registry{port: port}
	r.load(persist.KeyPersonasUser, &r.users)
	r.load(persist.KeyPersonasAI, &r.ais)

	if len(r.users) == 0 && len(r.ais) == 0 {
		r.users = append(r.users, model.Persona{
			ID:        "user_default",
			Type:      model.PersonaUser,
			Name:      "You",
			Backstory: "A curious person interested in AI conversations",
		})
		r.ais = append(r.ais, model.Persona{
			ID:        "ai_default",
			Type:      model.PersonaAI,
			Name:      "AI Companion",
			Gender:    "AI",
			Backstory: "A helpful and knowledgeable AI assistant",
			Physical:  "A digital entity represented by text",
			Directive: "Be helpful, informative, and engaging. Provide thoughtful responses.",
		})
		if err := r.save(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) load(key string, dst *[]model.Persona) {
	value, ok, err := r.port.Load(key)
	if err != nil {
		slog.Warn("load personas failed", "key", key, "error", err)
		return
	}
	if !ok {
		return
	}
	if err := json.Unmarshal(value, dst); err != nil {
		slog.Warn("corrupt persona blob, resetting", "key", key, "error", err)
	}
}

func (r *Registry) save() error {
	for _, c := range []struct {
		key   string
		value []model.Persona
	}{
		{persist.KeyPersonasUser, r.users},
		{persist.KeyPersonasAI, r.ais},
	} {
		b, err := json.Marshal(c.value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", c.key, err)
		}
		if err := r.port.Save(c.key, b); err != nil {
			return fmt.Errorf("save %s: %w", c.key, err)
		}
	}
	return nil
}

// Get implements Provider.
func (r *Registry) Get(id string, typ model.PersonaType) (*model.Persona, bool) {
	for i, p := range r.list(typ) {
		if p.ID == id {
			cp := r.list(typ)[i]
			return &cp, true
		}
	}
	return nil, false
}

// Default returns the first persona of the given type, if any.
func (r *Registry) Default(typ model.PersonaType) (*model.Persona, bool) {
	list := r.list(typ)
	if len(list) == 0 {
		return nil, false
	}
	cp := list[0]
	return &cp, true
}

// List returns all personas of the given type.
func (r *Registry) List(typ model.PersonaType) []model.Persona {
	return append([]model.Persona(nil), r.list(typ)...)
}

func (r *Registry) list(typ model.PersonaType) []model.Persona {
	if typ == model.PersonaAI {
		return r.ais
	}
	return r.users
}
