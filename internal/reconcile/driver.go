package reconcile

import (
	"context"
	"strings"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/hmoraleda/relink/internal/notion"
	"github.com/hmoraleda/relink/pkg/names"
	"github.com/hmoraleda/relink/pkg/properties"
)

// PlaceholderPersonID stands in for a person "created" during a dry run.
// It flows through linking and statistics so a simulated run behaves like a
// real one, but it is never written into the resolution cache and never
// survives past the current contract.
const PlaceholderPersonID = "DRY_RUN_ID"

// API is the remote surface the driver needs. *notion.Client satisfies it.
type API interface {
	FindPersonByName(ctx context.Context, databaseID, titleProp, name string) (*notion.Page, error)
	CreatePerson(ctx context.Context, databaseID, titleProp, name string, extra map[string]properties.Property) (*notion.Page, error)
	UpdatePersonProperties(ctx context.Context, pageID string, props map[string]properties.Property) error
	LinkContractToPerson(ctx context.Context, contractID, relationProp, personID string) error
}

// Enrichment maps one optional contract field onto a person field. A staged
// value is only ever written when the person's field is currently empty.
type Enrichment struct {
	ContractProperty string
	PersonProperty   string
	Kind             properties.Kind
}

// Driver runs the per-contract state machine: extract name, normalize,
// resolve person (cache, then remote lookup, then create), enrich empty
// person fields, link the contract. Failures local to one contract become
// error events; they never abort the batch.
type Driver struct {
	api    API
	cache  *Cache
	sink   Sink
	stats  *Stats
	cfg    Config
	logger *zerolog.Logger
}

// NewDriver creates a driver bound to one session's cache, sink, and stats.
func NewDriver(api API, cache *Cache, sink Sink, stats *Stats, cfg Config, logger *zerolog.Logger) *Driver {
	return &Driver{
		api:    api,
		cache:  cache,
		sink:   sink,
		stats:  stats,
		cfg:    cfg,
		logger: logger,
	}
}

// Process runs one contract through the state machine to a terminal outcome.
func (d *Driver) Process(ctx context.Context, contract notion.Page) {
	name := names.Normalize(d.extract(contract, d.cfg.ContractNameProperty))
	if name == "" {
		d.emit(Event{
			Kind:       EventSkippedEmptyName,
			ContractID: contract.ID,
			Detail:     "extracted name is empty after normalization",
		})
		return
	}

	personID, err := d.resolve(ctx, name, contract)
	if err != nil || personID == "" {
		detail := "lookup/creation failed: no person identifier obtained"
		if err != nil {
			detail = "lookup/creation failed: " + err.Error()
		}
		d.emit(Event{
			Kind:       EventError,
			ContractID: contract.ID,
			PersonName: name,
			Detail:     detail,
		})
		return
	}

	if !d.cfg.DryRun {
		if err := d.api.LinkContractToPerson(ctx, contract.ID, d.cfg.ContractRelationProperty, personID); err != nil {
			d.emit(Event{
				Kind:       EventError,
				ContractID: contract.ID,
				PersonID:   personID,
				PersonName: name,
				Detail:     "link failed: " + err.Error(),
			})
			return
		}
	}

	d.emit(Event{
		Kind:       EventLinked,
		ContractID: contract.ID,
		PersonID:   personID,
		PersonName: name,
	})
}

// resolve finds or creates the person for a normalized name. The resolved
// identifier is cached for the rest of the session, except in dry-run mode
// where nothing is cached at all.
func (d *Driver) resolve(ctx context.Context, name string, contract notion.Page) (string, error) {
	if id, ok := d.cache.Get(name); ok {
		d.stats.CacheHits++
		d.logger.Debug().Str("name", name).Msg("Resolved from cache")
		return id, nil
	}

	person, err := d.api.FindPersonByName(ctx, d.cfg.PersonsDatabaseID, d.cfg.PersonNameProperty, name)
	if err != nil {
		return "", err
	}

	var personID string
	if person != nil {
		personID = person.ID
		d.emit(Event{
			Kind:       EventPersonFound,
			ContractID: contract.ID,
			PersonID:   personID,
			PersonName: name,
		})
		d.enrich(ctx, person, contract, name)
	} else {
		personID, err = d.create(ctx, name, contract)
		if err != nil {
			return "", err
		}
	}

	if !d.cfg.DryRun {
		d.cache.Put(name, personID)
	}
	return personID, nil
}

// create makes a new person with the title plus any non-empty optional
// source fields, or hands back the placeholder in dry-run mode.
func (d *Driver) create(ctx context.Context, name string, contract notion.Page) (string, error) {
	extra, staged := d.stage(contract, nil)

	personID := PlaceholderPersonID
	if !d.cfg.DryRun {
		person, err := d.api.CreatePerson(ctx, d.cfg.PersonsDatabaseID, d.cfg.PersonNameProperty, name, extra)
		if err != nil {
			return "", err
		}
		personID = person.ID
	}

	d.emit(Event{
		Kind:       EventPersonCreated,
		ContractID: contract.ID,
		PersonID:   personID,
		PersonName: name,
		Properties: staged,
	})
	return personID, nil
}

// enrich fills person fields that are present on the contract and currently
// empty on the person. Values already set on the person are never
// overwritten. A failed update is logged and dropped; it does not block the
// link, since the person identifier is already known.
func (d *Driver) enrich(ctx context.Context, person *notion.Page, contract notion.Page, name string) {
	props, staged := d.stage(contract, person)
	if len(props) == 0 {
		return
	}

	if !d.cfg.DryRun {
		if err := d.api.UpdatePersonProperties(ctx, person.ID, props); err != nil {
			d.logger.Warn().
				Err(err).
				Str("person_id", person.ID).
				Strs("properties", staged).
				Msg("Enrichment update failed, person left as found")
			return
		}
	}

	d.emit(Event{
		Kind:       EventPersonEnriched,
		ContractID: contract.ID,
		PersonID:   person.ID,
		PersonName: name,
		Properties: staged,
	})
}

// stage computes the candidate properties for creation (person == nil) or
// enrichment. A field is staged when the contract carries a non-empty value
// and, for enrichment, the person's corresponding field is empty.
func (d *Driver) stage(contract notion.Page, person *notion.Page) (map[string]properties.Property, []string) {
	props := make(map[string]properties.Property)
	var staged []string

	for _, e := range d.cfg.Enrichments {
		value := strings.TrimSpace(d.extract(contract, e.ContractProperty))
		if value == "" {
			continue
		}
		if person != nil {
			if existing := d.extract(*person, e.PersonProperty); strings.TrimSpace(existing) != "" {
				continue
			}
		}
		props[e.PersonProperty] = buildProperty(e.Kind, value)
		staged = append(staged, e.PersonProperty)
	}
	return props, staged
}

// extract pulls the text of a named property, degrading to the empty string
// on unexpected shapes. Shape problems are logged, never fatal.
func (d *Driver) extract(page notion.Page, propName string) string {
	prop, ok := page.Property(propName)
	if !ok {
		return ""
	}
	text, err := properties.Text(prop)
	if err != nil {
		d.logger.Warn().
			Err(err).
			Str("page_id", page.ID).
			Str("property", propName).
			Msg("Property extraction degraded")
	}
	return text
}

// buildProperty constructs the writable value for a staged field.
func buildProperty(kind properties.Kind, value string) properties.Property {
	switch kind {
	case properties.KindEmail:
		return properties.NewEmail(value)
	case properties.KindSelect:
		return properties.NewSelect(value)
	case properties.KindPhoneNumber:
		return properties.NewPhoneNumber(value)
	default:
		return properties.NewRichText(value)
	}
}

// emit stamps and delivers one event.
func (d *Driver) emit(e Event) {
	e.Timestamp = utc.Now()
	d.sink.Emit(e)
}
