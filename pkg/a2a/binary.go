package a2a

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"time"
)

/*
Binary wire codec. The binary transport (pkg/rpc) speaks a length-prefixed,
protocol-buffer-style encoding; since no .proto sources are generated in
this environment, each wire type below encodes itself as a sequence of
fields in a fixed order (a varint length prefix per variable-length field,
a presence byte ahead of every pointer-valued field) rather than through
generated marshal code. This keeps the wire-format asymmetries against the
textual side — Part's single-string text field, Role/TaskState as integers,
timestamps as seconds+nanos — explicit and in one place.
*/

func writeUvarint(w *bytes.Buffer, v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.Write(tmp[:n])
}

func readUvarint(r io.ByteReader) (uint64, error) {
	return binary.ReadUvarint(r)
}

func writeString(w *bytes.Buffer, s string) {
	writeUvarint(w, uint64(len(s)))
	w.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readUvarint(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeBool(w *bytes.Buffer, b bool) {
	if b {
		w.WriteByte(1)
	} else {
		w.WriteByte(0)
	}
}

func readBool(r *bytes.Reader) (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

func writeInt32(w *bytes.Buffer, v int32) {
	writeUvarint(w, uint64(uint32(v)))
}

func readInt32(r *bytes.Reader) (int32, error) {
	v, err := readUvarint(r)
	if err != nil {
		return 0, err
	}
	return int32(uint32(v)), nil
}

func writeStrings(w *bytes.Buffer, ss []string) {
	writeUvarint(w, uint64(len(ss)))
	for _, s := range ss {
		writeString(w, s)
	}
}

func readStrings(r *bytes.Reader) ([]string, error) {
	n, err := readUvarint(r)
	if err != nil {
		return nil, err
	}
	out := make([]string, n)
	for i := range out {
		if out[i], err = readString(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// --- Value / Object ---

func writeValue(w *bytes.Buffer, v Value) {
	w.WriteByte(byte(v.Kind))
	switch v.Kind {
	case ValueBool:
		writeBool(w, v.Bool)
	case ValueNumber:
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], math.Float64bits(v.Num))
		w.Write(tmp[:])
	case ValueString:
		writeString(w, v.Str)
	case ValueList:
		writeUvarint(w, uint64(len(v.List)))
		for _, e := range v.List {
			writeValue(w, e)
		}
	case ValueStruct:
		writeValueMap(w, v.Obj)
	}
}

func readValue(r *bytes.Reader) (Value, error) {
	kindByte, err := r.ReadByte()
	if err != nil {
		return Value{}, err
	}
	kind := ValueKind(kindByte)
	switch kind {
	case ValueBool:
		b, err := readBool(r)
		return Value{Kind: kind, Bool: b}, err
	case ValueNumber:
		var tmp [8]byte
		if _, err := io.ReadFull(r, tmp[:]); err != nil {
			return Value{}, err
		}
		return Value{Kind: kind, Num: math.Float64frombits(binary.BigEndian.Uint64(tmp[:]))}, nil
	case ValueString:
		s, err := readString(r)
		return Value{Kind: kind, Str: s}, err
	case ValueList:
		n, err := readUvarint(r)
		if err != nil {
			return Value{}, err
		}
		list := make([]Value, n)
		for i := range list {
			if list[i], err = readValue(r); err != nil {
				return Value{}, err
			}
		}
		return Value{Kind: kind, List: list}, nil
	case ValueStruct:
		obj, err := readValueMap(r)
		return Value{Kind: kind, Obj: obj}, err
	default:
		return Value{Kind: ValueNull}, nil
	}
}

func writeValueMap(w *bytes.Buffer, m map[string]Value) {
	writeUvarint(w, uint64(len(m)))
	for k, v := range m {
		writeString(w, k)
		writeValue(w, v)
	}
}

func readValueMap(r *bytes.Reader) (map[string]Value, error) {
	n, err := readUvarint(r)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Value, n)
	for i := uint64(0); i < n; i++ {
		k, err := readString(r)
		if err != nil {
			return nil, err
		}
		v, err := readValue(r)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func writeObject(w *bytes.Buffer, o Object) {
	writeValueMap(w, ObjectToValue(o))
}

func readObject(r *bytes.Reader) (Object, error) {
	fields, err := readValueMap(r)
	if err != nil {
		return nil, err
	}
	return ValueToObject(fields), nil
}

// --- Timestamp ---

func writeTimestamp(w *bytes.Buffer, t *time.Time) {
	writeBool(w, t != nil)
	if t == nil {
		return
	}
	writeUvarint(w, uint64(t.Unix()))
	writeInt32(w, int32(t.Nanosecond()))
}

func readTimestamp(r *bytes.Reader) (*time.Time, error) {
	present, err := readBool(r)
	if err != nil || !present {
		return nil, err
	}
	secs, err := readUvarint(r)
	if err != nil {
		return nil, err
	}
	nanos, err := readInt32(r)
	if err != nil {
		return nil, err
	}
	t := time.Unix(int64(secs), int64(nanos)).UTC()
	return &t, nil
}

// --- Part ---

func writePart(w *bytes.Buffer, p Part) {
	switch p.Kind {
	case PartKindFile:
		w.WriteByte(1)
		file := FilePart{}
		if p.File != nil {
			file = *p.File
		}
		writeString(w, file.Name)
		writeString(w, file.MimeType)
		writeString(w, file.URI)
		writeString(w, file.Bytes)
	case PartKindData:
		w.WriteByte(2)
		writeObject(w, p.Data)
	default:
		w.WriteByte(0)
		// the binary wire represents a text part as a single string field,
		// not the {kind,text} object the textual wire uses.
		writeString(w, p.Text)
	}
}

func readPart(r *bytes.Reader) (Part, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return Part{}, err
	}
	switch tag {
	case 1:
		name, err := readString(r)
		if err != nil {
			return Part{}, err
		}
		mime, err := readString(r)
		if err != nil {
			return Part{}, err
		}
		uri, err := readString(r)
		if err != nil {
			return Part{}, err
		}
		data, err := readString(r)
		if err != nil {
			return Part{}, err
		}
		return Part{Kind: PartKindFile, File: &FilePart{Name: name, MimeType: mime, URI: uri, Bytes: data}}, nil
	case 2:
		obj, err := readObject(r)
		if err != nil {
			return Part{}, err
		}
		return Part{Kind: PartKindData, Data: obj}, nil
	default:
		text, err := readString(r)
		if err != nil {
			return Part{}, err
		}
		return Part{Kind: PartKindText, Text: text}, nil
	}
}

func writeParts(w *bytes.Buffer, parts []Part) {
	writeUvarint(w, uint64(len(parts)))
	for _, p := range parts {
		writePart(w, p)
	}
}

func readParts(r *bytes.Reader) ([]Part, error) {
	n, err := readUvarint(r)
	if err != nil {
		return nil, err
	}
	out := make([]Part, n)
	for i := range out {
		if out[i], err = readPart(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// --- Message ---

func (m *Message) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	writeString(&buf, m.MessageID)
	writeString(&buf, m.ContextID)
	writeString(&buf, m.TaskID)
	writeUvarint(&buf, uint64(uint32(m.Role)))
	writeParts(&buf, m.Parts)
	writeObject(&buf, m.Metadata)
	writeStrings(&buf, m.Extensions)
	return buf.Bytes(), nil
}

func (m *Message) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	var err error
	if m.MessageID, err = readString(r); err != nil {
		return err
	}
	if m.ContextID, err = readString(r); err != nil {
		return err
	}
	if m.TaskID, err = readString(r); err != nil {
		return err
	}
	role, err := readUvarint(r)
	if err != nil {
		return err
	}
	m.Role = Role(int32(role))
	if m.Parts, err = readParts(r); err != nil {
		return err
	}
	if m.Metadata, err = readObject(r); err != nil {
		return err
	}
	if m.Extensions, err = readStrings(r); err != nil {
		return err
	}
	return nil
}

// --- Artifact ---

func writeArtifact(w *bytes.Buffer, a Artifact) {
	writeString(w, a.ArtifactID)
	writeString(w, a.Name)
	writeString(w, a.Description)
	writeParts(w, a.Parts)
	writeObject(w, a.Metadata)
	writeStrings(w, a.Extensions)
}

func readArtifact(r *bytes.Reader) (Artifact, error) {
	var a Artifact
	var err error
	if a.ArtifactID, err = readString(r); err != nil {
		return a, err
	}
	if a.Name, err = readString(r); err != nil {
		return a, err
	}
	if a.Description, err = readString(r); err != nil {
		return a, err
	}
	if a.Parts, err = readParts(r); err != nil {
		return a, err
	}
	if a.Metadata, err = readObject(r); err != nil {
		return a, err
	}
	if a.Extensions, err = readStrings(r); err != nil {
		return a, err
	}
	return a, nil
}

func writeArtifacts(w *bytes.Buffer, artifacts []Artifact) {
	writeUvarint(w, uint64(len(artifacts)))
	for _, a := range artifacts {
		writeArtifact(w, a)
	}
}

func readArtifacts(r *bytes.Reader) ([]Artifact, error) {
	n, err := readUvarint(r)
	if err != nil {
		return nil, err
	}
	out := make([]Artifact, n)
	for i := range out {
		if out[i], err = readArtifact(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func writeMessages(w *bytes.Buffer, messages []Message) {
	writeUvarint(w, uint64(len(messages)))
	for _, m := range messages {
		b, _ := m.MarshalBinary()
		writeUvarint(w, uint64(len(b)))
		w.Write(b)
	}
}

func readMessages(r *bytes.Reader) ([]Message, error) {
	n, err := readUvarint(r)
	if err != nil {
		return nil, err
	}
	out := make([]Message, n)
	for i := range out {
		l, err := readUvarint(r)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, l)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		if err := out[i].UnmarshalBinary(buf); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// --- TaskStatus / Task ---

func writeTaskStatus(w *bytes.Buffer, s TaskStatus) {
	writeUvarint(w, uint64(uint32(s.State)))
	writeBool(w, s.Message != nil)
	if s.Message != nil {
		b, _ := s.Message.MarshalBinary()
		writeUvarint(w, uint64(len(b)))
		w.Write(b)
	}
	writeTimestamp(w, s.Timestamp)
}

func readTaskStatus(r *bytes.Reader) (TaskStatus, error) {
	var s TaskStatus
	state, err := readUvarint(r)
	if err != nil {
		return s, err
	}
	s.State = TaskState(int32(state))

	hasMessage, err := readBool(r)
	if err != nil {
		return s, err
	}
	if hasMessage {
		l, err := readUvarint(r)
		if err != nil {
			return s, err
		}
		buf := make([]byte, l)
		if _, err := io.ReadFull(r, buf); err != nil {
			return s, err
		}
		var m Message
		if err := m.UnmarshalBinary(buf); err != nil {
			return s, err
		}
		s.Message = &m
	}

	ts, err := readTimestamp(r)
	if err != nil {
		return s, err
	}
	s.Timestamp = ts
	return s, nil
}

func (t *Task) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	writeString(&buf, t.ID)
	writeString(&buf, t.ContextID)
	writeTaskStatus(&buf, t.Status)
	writeArtifacts(&buf, t.Artifacts)
	writeMessages(&buf, t.History)
	writeObject(&buf, t.Metadata)
	return buf.Bytes(), nil
}

func (t *Task) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	var err error
	if t.ID, err = readString(r); err != nil {
		return err
	}
	if t.ContextID, err = readString(r); err != nil {
		return err
	}
	if t.Status, err = readTaskStatus(r); err != nil {
		return err
	}
	if t.Artifacts, err = readArtifacts(r); err != nil {
		return err
	}
	if t.History, err = readMessages(r); err != nil {
		return err
	}
	if t.Metadata, err = readObject(r); err != nil {
		return err
	}
	return nil
}

// --- SendMessageConfiguration / SendMessageRequest / SendMessageResponse ---

func (c *SendMessageConfiguration) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	writeStrings(&buf, c.AcceptedOutputModes)
	writeBool(&buf, c.PushNotification != nil)
	if c.PushNotification != nil {
		writeString(&buf, c.PushNotification.URL)
		writeString(&buf, c.PushNotification.Token)
		writeString(&buf, c.PushNotification.AuthScheme)
		writeString(&buf, c.PushNotification.AuthCredential)
	}
	writeInt32(&buf, c.HistoryLength)
	writeBool(&buf, c.Blocking)
	return buf.Bytes(), nil
}

func (c *SendMessageConfiguration) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	var err error
	if c.AcceptedOutputModes, err = readStrings(r); err != nil {
		return err
	}
	hasPush, err := readBool(r)
	if err != nil {
		return err
	}
	if hasPush {
		url, err := readString(r)
		if err != nil {
			return err
		}
		token, err := readString(r)
		if err != nil {
			return err
		}
		authScheme, err := readString(r)
		if err != nil {
			return err
		}
		authCredential, err := readString(r)
		if err != nil {
			return err
		}
		c.PushNotification = &PushNotificationConfig{URL: url, Token: token, AuthScheme: authScheme, AuthCredential: authCredential}
	}
	if c.HistoryLength, err = readInt32(r); err != nil {
		return err
	}
	if c.Blocking, err = readBool(r); err != nil {
		return err
	}
	return nil
}

func (req *SendMessageRequest) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	writeBool(&buf, req.Message != nil)
	if req.Message != nil {
		b, _ := req.Message.MarshalBinary()
		writeUvarint(&buf, uint64(len(b)))
		buf.Write(b)
	}
	writeBool(&buf, req.Configuration != nil)
	if req.Configuration != nil {
		b, _ := req.Configuration.MarshalBinary()
		writeUvarint(&buf, uint64(len(b)))
		buf.Write(b)
	}
	writeObject(&buf, req.Metadata)
	return buf.Bytes(), nil
}

func (req *SendMessageRequest) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	hasMessage, err := readBool(r)
	if err != nil {
		return err
	}
	if hasMessage {
		l, err := readUvarint(r)
		if err != nil {
			return err
		}
		buf := make([]byte, l)
		if _, err := io.ReadFull(r, buf); err != nil {
			return err
		}
		var m Message
		if err := m.UnmarshalBinary(buf); err != nil {
			return err
		}
		req.Message = &m
	}

	hasConfig, err := readBool(r)
	if err != nil {
		return err
	}
	if hasConfig {
		l, err := readUvarint(r)
		if err != nil {
			return err
		}
		buf := make([]byte, l)
		if _, err := io.ReadFull(r, buf); err != nil {
			return err
		}
		var c SendMessageConfiguration
		if err := c.UnmarshalBinary(buf); err != nil {
			return err
		}
		req.Configuration = &c
	}

	if req.Metadata, err = readObject(r); err != nil {
		return err
	}
	return nil
}

func (resp *SendMessageResponse) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if resp.Kind == SendMessagePayloadMessage {
		buf.WriteByte(1)
		b, _ := resp.Message.MarshalBinary()
		writeUvarint(&buf, uint64(len(b)))
		buf.Write(b)
		return buf.Bytes(), nil
	}
	buf.WriteByte(0)
	b, _ := resp.Task.MarshalBinary()
	writeUvarint(&buf, uint64(len(b)))
	buf.Write(b)
	return buf.Bytes(), nil
}

func (resp *SendMessageResponse) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	tag, err := r.ReadByte()
	if err != nil {
		return err
	}
	l, err := readUvarint(r)
	if err != nil {
		return err
	}
	buf := make([]byte, l)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	if tag == 1 {
		var m Message
		if err := m.UnmarshalBinary(buf); err != nil {
			return err
		}
		resp.Kind = SendMessagePayloadMessage
		resp.Message = &m
		return nil
	}
	var t Task
	if err := t.UnmarshalBinary(buf); err != nil {
		return err
	}
	resp.Kind = SendMessagePayloadTask
	resp.Task = &t
	return nil
}

// GetTaskGrpcRequest is the binary-wire shape of GetTaskRequest: the id
// travels as Name in the prefixed form "task/<id>".
type GetTaskGrpcRequest struct {
	Name          string
	HistoryLength int32
}

func (req *GetTaskGrpcRequest) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	writeString(&buf, req.Name)
	writeInt32(&buf, req.HistoryLength)
	return buf.Bytes(), nil
}

func (req *GetTaskGrpcRequest) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	var err error
	if req.Name, err = readString(r); err != nil {
		return err
	}
	if req.HistoryLength, err = readInt32(r); err != nil {
		return err
	}
	return nil
}

func (req *GetTaskGrpcRequest) ToGetTaskRequest() GetTaskRequest {
	return GetTaskRequest{ID: NameToID(req.Name), HistoryLength: req.HistoryLength}
}

func GetTaskRequestToGrpc(req GetTaskRequest) *GetTaskGrpcRequest {
	return &GetTaskGrpcRequest{Name: IDToName(req.ID), HistoryLength: req.HistoryLength}
}
