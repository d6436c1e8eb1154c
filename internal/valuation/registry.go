package valuation

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"propval/internal/uuid"
)

// Model is a named, parameterized wrapper around one valuation method.
// Models are owned by the Registry and mutated only through its operations.
type Model struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Algorithm   Method             `json:"algorithm"`
	Parameters  map[string]float64 `json:"parameters"`
	IsActive    bool               `json:"is_active"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// clone copies the model so registry state cannot be mutated from outside.
func (m *Model) clone() *Model {
	c := *m
	if m.Parameters != nil {
		c.Parameters = make(map[string]float64, len(m.Parameters))
		for k, v := range m.Parameters {
			c.Parameters[k] = v
		}
	}
	return &c
}

// UnknownModelError is returned by registry operations referencing a model
// id that does not exist.
type UnknownModelError struct {
	ID string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("valuation model %q not found", e.ID)
}

// UnknownAlgorithmError is returned when a model configuration names an
// algorithm outside the closed method set.
type UnknownAlgorithmError struct {
	Name string
}

func (e *UnknownAlgorithmError) Error() string {
	return fmt.Sprintf("unknown valuation algorithm %q", e.Name)
}

// ActiveModelError is returned when deleting the currently active model.
type ActiveModelError struct {
	ID string
}

func (e *ActiveModelError) Error() string {
	return fmt.Sprintf("model %q is active and cannot be deleted", e.ID)
}

// ConfigError reports an invalid configuration such as weights that do not
// sum to 1.0 or a comparison over too few inputs.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return e.Reason }

// ModelConfig is the input to Register and Update.
type ModelConfig struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Algorithm   string             `json:"algorithm"`
	Parameters  map[string]float64 `json:"parameters"`
}

// ModelPatch carries the optional fields of an update; nil fields are left
// unchanged.
type ModelPatch struct {
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	Algorithm   *string            `json:"algorithm"`
	Parameters  map[string]float64 `json:"parameters"`
}

// Registry holds the in-memory set of valuation models. It is constructed by
// the caller and injected where needed; reads run concurrently while
// mutations are serialized through a single writer lock.
type Registry struct {
	mu       sync.RWMutex
	models   map[string]*Model
	activeID string
	engine   *Engine
}

// NewRegistry creates a registry dispatching to the given engine. The
// registry starts empty with no active model.
func NewRegistry(engine *Engine) *Registry {
	return &Registry{
		models: make(map[string]*Model),
		engine: engine,
	}
}

// Register creates a new model from the configuration. The model gets a
// fresh id and starts inactive. Unknown algorithms are rejected here, at
// construction time.
func (r *Registry) Register(cfg ModelConfig) (*Model, error) {
	method, ok := ParseMethod(cfg.Algorithm)
	if !ok {
		return nil, &UnknownAlgorithmError{Name: cfg.Algorithm}
	}
	if cfg.Name == "" {
		return nil, &ConfigError{Reason: "model name is required"}
	}

	now := r.engine.Now()
	m := &Model{
		ID:          uuid.New(),
		Name:        cfg.Name,
		Description: cfg.Description,
		Algorithm:   method,
		Parameters:  cfg.Parameters,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	r.mu.Lock()
	r.models[m.ID] = m
	r.mu.Unlock()

	return m.clone(), nil
}

// Update merges the patch into the model and bumps UpdatedAt.
func (r *Registry) Update(id string, patch ModelPatch) (*Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.models[id]
	if !ok {
		return nil, &UnknownModelError{ID: id}
	}

	if patch.Algorithm != nil {
		method, ok := ParseMethod(*patch.Algorithm)
		if !ok {
			return nil, &UnknownAlgorithmError{Name: *patch.Algorithm}
		}
		m.Algorithm = method
	}
	if patch.Name != nil {
		m.Name = *patch.Name
	}
	if patch.Description != nil {
		m.Description = *patch.Description
	}
	if patch.Parameters != nil {
		m.Parameters = patch.Parameters
	}
	m.UpdatedAt = r.engine.Now()

	return m.clone(), nil
}

// Delete removes a model. Deleting the active model is rejected and leaves
// the registry unchanged.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.models[id]; !ok {
		return &UnknownModelError{ID: id}
	}
	if id == r.activeID {
		return &ActiveModelError{ID: id}
	}
	delete(r.models, id)
	return nil
}

// SetActive atomically deactivates every model and activates the target, so
// at most one model is ever marked active.
func (r *Registry) SetActive(id string) (*Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, ok := r.models[id]
	if !ok {
		return nil, &UnknownModelError{ID: id}
	}
	for _, m := range r.models {
		m.IsActive = false
	}
	target.IsActive = true
	target.UpdatedAt = r.engine.Now()
	r.activeID = id

	return target.clone(), nil
}

// Get returns a copy of the model.
func (r *Registry) Get(id string) (*Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.models[id]
	if !ok {
		return nil, &UnknownModelError{ID: id}
	}
	return m.clone(), nil
}

// Active returns the currently active model, or nil if none is active.
func (r *Registry) Active() *Model {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.activeID == "" {
		return nil
	}
	if m, ok := r.models[r.activeID]; ok {
		return m.clone()
	}
	return nil
}

// List returns all models ordered by creation time.
func (r *Registry) List() []*Model {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Model, 0, len(r.models))
	for _, m := range r.models {
		out = append(out, m.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Calculate runs the model's algorithm against the property. Combined-method
// weights come from the model's parameters when present, falling back to the
// table defaults.
func (r *Registry) Calculate(id string, p *PropertyInfo) (*ValuationResult, error) {
	m, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	return r.calculate(m, p)
}

// CalculateActive runs the active model, or plain market comparison when no
// model is active.
func (r *Registry) CalculateActive(p *PropertyInfo) (*ValuationResult, error) {
	m := r.Active()
	if m == nil {
		return r.engine.Appraise(p, MethodMarket)
	}
	return r.calculate(m, p)
}

func (r *Registry) calculate(m *Model, p *PropertyInfo) (*ValuationResult, error) {
	if m.Algorithm != MethodCombined {
		return r.engine.Appraise(p, m.Algorithm)
	}
	return r.engine.AppraiseWeighted(p, MethodCombined, m.CombinedWeights(r.engine.tables.CombinedWeights))
}

// CombinedWeights resolves the combined-method weights from the model's
// parameters (market_weight / income_weight / cost_weight), falling back to
// the given defaults when the parameters carry no complete weight set.
func (m *Model) CombinedWeights(defaults Weights) Weights {
	market, okM := m.Parameters["market_weight"]
	income, okI := m.Parameters["income_weight"]
	cost, okC := m.Parameters["cost_weight"]
	if okM && okI && okC {
		return Weights{Market: market, Income: income, Cost: cost}
	}
	return defaults
}

// ModelComparison is the result of running several models against the same
// property.
type ModelComparison struct {
	AveragePrice     int64             `json:"average_price"`
	AverageUnitPrice int64             `json:"average_unit_price"`
	MinPrice         int64             `json:"min_price"`
	MaxPrice         int64             `json:"max_price"`
	PriceRange       int64             `json:"price_range"`
	Entries          []ComparisonEntry `json:"entries"`
}

// ComparisonEntry is one model's result plus its signed distance from the
// comparison average.
type ComparisonEntry struct {
	Model          *Model           `json:"model"`
	Result         *ValuationResult `json:"result"`
	DiffFromAvg    int64            `json:"diff_from_avg"`
	DiffFromAvgPct float64          `json:"diff_from_avg_pct"`
}

// Compare runs every resolvable model in ids against the property and
// reports aggregate statistics. Ids that resolve to no model are skipped;
// the comparison fails if none resolve.
func (r *Registry) Compare(ids []string, p *PropertyInfo) (*ModelComparison, error) {
	entries := make([]ComparisonEntry, 0, len(ids))
	for _, id := range ids {
		m, err := r.Get(id)
		if err != nil {
			continue
		}
		result, err := r.calculate(m, p)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ComparisonEntry{Model: m, Result: result})
	}
	if len(entries) == 0 {
		return nil, &ConfigError{Reason: "no valid models to compare"}
	}

	var sumPrice, sumUnit int64
	minPrice := entries[0].Result.TotalValue
	maxPrice := entries[0].Result.TotalValue
	for _, e := range entries {
		total := e.Result.TotalValue
		sumPrice += total
		sumUnit += e.Result.UnitPrice
		if total < minPrice {
			minPrice = total
		}
		if total > maxPrice {
			maxPrice = total
		}
	}
	n := int64(len(entries))
	avgPrice := roundCurrency(float64(sumPrice) / float64(n))
	avgUnit := roundCurrency(float64(sumUnit) / float64(n))

	for i := range entries {
		diff := entries[i].Result.TotalValue - avgPrice
		entries[i].DiffFromAvg = diff
		if avgPrice != 0 {
			entries[i].DiffFromAvgPct = float64(diff) / float64(avgPrice) * 100
		}
	}

	return &ModelComparison{
		AveragePrice:     avgPrice,
		AverageUnitPrice: avgUnit,
		MinPrice:         minPrice,
		MaxPrice:         maxPrice,
		PriceRange:       maxPrice - minPrice,
		Entries:          entries,
	}, nil
}

// exportedModel is the round-trip-safe wire form of a model configuration.
type exportedModel struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Algorithm   string             `json:"algorithm"`
	Parameters  map[string]float64 `json:"parameters"`
}

// Export serializes a model's configuration to JSON. Identity and activation
// state are deliberately excluded.
func (r *Registry) Export(id string) (string, error) {
	m, err := r.Get(id)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(exportedModel{
		Name:        m.Name,
		Description: m.Description,
		Algorithm:   string(m.Algorithm),
		Parameters:  m.Parameters,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Import registers a model from an exported configuration. The imported
// model always gets a fresh id, fresh timestamps, and starts inactive.
func (r *Registry) Import(data string) (*Model, error) {
	var cfg exportedModel
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		return nil, &ConfigError{Reason: "invalid model configuration: " + err.Error()}
	}
	return r.Register(ModelConfig{
		Name:        cfg.Name,
		Description: cfg.Description,
		Algorithm:   cfg.Algorithm,
		Parameters:  cfg.Parameters,
	})
}
