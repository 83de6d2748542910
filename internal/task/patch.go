package task

// Patch is a field-level partial update. Keys are the task JSON field
// names (status, prioridade, data_solucao, ...). The identity fields
// project and task_id cannot be patched.
type Patch map[string]string

// patchable maps field names to setters. Enum fields are re-validated by
// Patch.Validate before any setter runs.
var patchable = map[string]func(*Task, string){
	"task_id_root": func(t *Task, v string) { t.TaskIDRoot = v },
	"sprint":       func(t *Task, v string) { t.Sprint = v },
	"contexto":     func(t *Task, v string) { t.Contexto = v },
	"descricao":    func(t *Task, v string) { t.Descricao = v },
	"detalhado":    func(t *Task, v string) { t.Detalhado = v },
	"prioridade":   func(t *Task, v string) { t.Prioridade = Priority(v) },
	"status":       func(t *Task, v string) { t.Status = Status(v) },
	"data_criacao": func(t *Task, v string) { t.DataCriacao = v },
	"data_solucao": func(t *Task, v string) { t.DataSolucao = v },
}

// Validate rejects empty patches, unknown or immutable fields, and invalid
// enum values. A patch that passes Validate always applies cleanly.
func (p Patch) Validate() error {
	if len(p) == 0 {
		return Validationf("no fields to update")
	}
	for field, value := range p {
		switch field {
		case "project", "task_id":
			return Validationf("field %q cannot be updated", field)
		case "prioridade":
			if !Priority(value).Valid() {
				return Validationf("prioridade %q is not one of %v", value, Priorities())
			}
		case "status":
			if !Status(value).Valid() {
				return Validationf("status %q is not one of %v", value, Statuses())
			}
		case "contexto", "descricao":
			if value == "" {
				return Validationf("%s cannot be cleared", field)
			}
		default:
			if _, ok := patchable[field]; !ok {
				return Validationf("unknown field %q", field)
			}
		}
	}
	return nil
}

// Has reports whether the patch explicitly provides the given field.
func (p Patch) Has(field string) bool {
	_, ok := p[field]
	return ok
}

// Apply writes the patch onto t. Callers must Validate first.
func (p Patch) Apply(t *Task) {
	for field, value := range p {
		if set, ok := patchable[field]; ok {
			set(t, value)
		}
	}
}
