package canonical

import (
	"bytes"
	"encoding/json"

	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/format"
)

// SchemaVersion is the version of the persisted package shape.
const SchemaVersion = 1

// ErrSchemaVersion is returned when decoding a package written by a newer
// schema.
var ErrSchemaVersion = errors.New("unsupported schema version")

type packageJSON struct {
	SchemaVersion int                   `json:"schemaVersion"`
	ID            string                `json:"id,omitempty"`
	Version       string                `json:"version,omitempty"`
	Name          string                `json:"name,omitempty"`
	Description   string                `json:"description,omitempty"`
	Author        string                `json:"author,omitempty"`
	Tags          []string              `json:"tags,omitempty"`
	Format        format.Format         `json:"format,omitempty"`
	Subtype       Subtype               `json:"subtype,omitempty"`
	Sections      []json.RawMessage     `json:"sections"`
	Configs       *Configs              `json:"configs,omitempty"`
	Compatibility map[format.Format]int `json:"compatibility,omitempty"`
	SourceFormat  format.Format         `json:"sourceFormat,omitempty"`
	SourceURL     string                `json:"sourceUrl,omitempty"`
}

// MarshalJSON writes the versioned package shape. Each section is an object
// with a "type" discriminator followed by its fields.
func (p *Package) MarshalJSON() ([]byte, error) {
	out := packageJSON{
		SchemaVersion: SchemaVersion,
		ID:            p.ID,
		Version:       p.Version,
		Name:          p.Name,
		Description:   p.Description,
		Author:        p.Author,
		Tags:          p.Tags,
		Format:        p.Format,
		Subtype:       p.Subtype,
		Sections:      make([]json.RawMessage, 0, len(p.Sections)),
		Compatibility: p.Compatibility,
		SourceFormat:  p.SourceFormat,
		SourceURL:     p.SourceURL,
	}
	if p.Configs != (Configs{}) {
		c := p.Configs
		out.Configs = &c
	}
	for i, s := range p.Sections {
		raw, err := marshalSection(s)
		if err != nil {
			return nil, errors.Wrapf(err, "section %d", i)
		}
		out.Sections = append(out.Sections, raw)
	}
	return json.Marshal(out)
}

func marshalSection(s Section) (json.RawMessage, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(`{"type":`)
	kind, _ := json.Marshal(s.Kind())
	buf.Write(kind)
	if inner := bytes.TrimSpace(body[1 : len(body)-1]); len(inner) > 0 {
		buf.WriteByte(',')
		buf.Write(inner)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the versioned package shape.
func (p *Package) UnmarshalJSON(data []byte) error {
	var in packageJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.SchemaVersion > SchemaVersion || in.SchemaVersion < 1 {
		return errors.Wrapf(ErrSchemaVersion, "%d", in.SchemaVersion)
	}

	sections := make([]Section, 0, len(in.Sections))
	for i, raw := range in.Sections {
		s, err := unmarshalSection(raw)
		if err != nil {
			return errors.Wrapf(err, "section %d", i)
		}
		sections = append(sections, s)
	}

	*p = Package{
		ID:            in.ID,
		Version:       in.Version,
		Name:          in.Name,
		Description:   in.Description,
		Author:        in.Author,
		Tags:          in.Tags,
		Format:        in.Format,
		Subtype:       in.Subtype,
		Sections:      sections,
		Compatibility: in.Compatibility,
		SourceFormat:  in.SourceFormat,
		SourceURL:     in.SourceURL,
	}
	if in.Configs != nil {
		p.Configs = *in.Configs
	}
	return nil
}

func unmarshalSection(raw json.RawMessage) (Section, error) {
	var head struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}
	s := NewSection(head.Type)
	if s == nil {
		return nil, errors.Newf("unknown section type %q", head.Type)
	}
	if err := json.Unmarshal(raw, s); err != nil {
		return nil, errors.Wrapf(err, "decoding %s section", head.Type)
	}
	return s, nil
}
