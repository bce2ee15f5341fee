package a2a

import "encoding/json"

// PartKind is the discriminator for a Part union, named "kind" on the wire.
type PartKind string

const (
	PartKindText PartKind = "text"
	PartKindFile PartKind = "file"
	PartKindData PartKind = "data"
)

/*
Part is a tagged union over a text string, a FilePart, or a structured data
Object. Exactly one of Text, File, Data is meaningful, selected by Kind.

The textual wire represents a text part as {"kind":"text","text":"…"} — the
bare string is never used directly even though that would be more compact.
The binary wire carries the same part as a single string field; both sides
must decode into the same in-memory Part.
*/
type Part struct {
	Kind PartKind
	Text string
	File *FilePart
	Data Object
}

type FilePart struct {
	Name     string `json:"name,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	Bytes    string `json:"bytes,omitempty"`
	URI      string `json:"uri,omitempty"`
}

func NewTextPart(text string) Part {
	return Part{Kind: PartKindText, Text: text}
}

func NewFilePart(file FilePart) Part {
	return Part{Kind: PartKindFile, File: &file}
}

func NewDataPart(data Object) Part {
	return Part{Kind: PartKindData, Data: data}
}

// textPartJSON / filePartJSON / dataPartJSON are the wire shapes for each
// branch of the tagged union; Part itself marshals through whichever one
// matches its Kind.
type textPartJSON struct {
	Kind PartKind `json:"kind"`
	Text string   `json:"text"`
}

type filePartJSON struct {
	Kind PartKind `json:"kind"`
	File FilePart `json:"file"`
}

type dataPartJSON struct {
	Kind PartKind `json:"kind"`
	Data Object   `json:"data"`
}

func (p Part) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case PartKindFile:
		file := FilePart{}
		if p.File != nil {
			file = *p.File
		}
		return json.Marshal(filePartJSON{Kind: PartKindFile, File: file})
	case PartKindData:
		return json.Marshal(dataPartJSON{Kind: PartKindData, Data: p.Data})
	default:
		return json.Marshal(textPartJSON{Kind: PartKindText, Text: p.Text})
	}
}

func (p *Part) UnmarshalJSON(data []byte) error {
	var probe struct {
		Kind PartKind `json:"kind"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	switch probe.Kind {
	case PartKindFile:
		var v filePartJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		p.Kind = PartKindFile
		p.File = &v.File
	case PartKindData:
		var v dataPartJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		p.Kind = PartKindData
		p.Data = v.Data
	default:
		var v textPartJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		p.Kind = PartKindText
		p.Text = v.Text
	}

	return nil
}
