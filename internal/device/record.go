package device

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/Faultbox/rigsync/internal/rig"
)

// Feedback log layout, little-endian:
//
//	header  kind uint16 | length uint16 | at int64 (ns since log start)
//	pose    6 × float64: pos x,y,z then rotation x,y,z (degrees)
//	state   uint32
//	result  uint32
const (
	headerSize = 12
	poseSize   = 48
	enumSize   = 4
)

var ErrBadRecord = errors.New("malformed feedback record")

// Record is a logged event with its offset from the start of the log.
type Record struct {
	At    time.Duration
	Event Event
}

func payloadSize(k Kind) (int, bool) {
	switch k {
	case KindLaserHead, KindGripper:
		return poseSize, true
	case KindBodyState, KindCalibResult:
		return enumSize, true
	}
	return 0, false
}

// Encode encodes the record to bytes.
func (r Record) Encode() ([]byte, error) {
	n, ok := payloadSize(r.Event.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: cannot record %s", ErrUnknownKind, r.Event.Kind)
	}

	buf := make([]byte, headerSize+n)
	binary.LittleEndian.PutUint16(buf[0:], uint16(r.Event.Kind))
	binary.LittleEndian.PutUint16(buf[2:], uint16(n))
	binary.LittleEndian.PutUint64(buf[4:], uint64(r.At))

	body := buf[headerSize:]
	switch r.Event.Kind {
	case KindLaserHead, KindGripper:
		pose := r.Event.Pose
		putFloat64(body, 0, pose.GlobalPos.X)
		putFloat64(body, 8, pose.GlobalPos.Y)
		putFloat64(body, 16, pose.GlobalPos.Z)
		putFloat64(body, 24, pose.GlobalRotation.X)
		putFloat64(body, 32, pose.GlobalRotation.Y)
		putFloat64(body, 40, pose.GlobalRotation.Z)
	case KindBodyState:
		binary.LittleEndian.PutUint32(body, uint32(r.Event.State))
	case KindCalibResult:
		binary.LittleEndian.PutUint32(body, uint32(r.Event.Result))
	}
	return buf, nil
}

// DecodeRecord decodes one record from the front of data and returns the
// number of bytes used.
func DecodeRecord(data []byte) (Record, int, error) {
	if len(data) < headerSize {
		return Record{}, 0, fmt.Errorf("%w: short header (%d bytes)", ErrBadRecord, len(data))
	}
	kind := Kind(binary.LittleEndian.Uint16(data[0:]))
	length := int(binary.LittleEndian.Uint16(data[2:]))
	at := time.Duration(binary.LittleEndian.Uint64(data[4:]))

	want, ok := payloadSize(kind)
	if !ok {
		return Record{}, 0, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if length != want {
		return Record{}, 0, fmt.Errorf("%w: %s payload is %d bytes, want %d", ErrBadRecord, kind, length, want)
	}
	if len(data) < headerSize+length {
		return Record{}, 0, fmt.Errorf("%w: truncated %s payload", ErrBadRecord, kind)
	}

	body := data[headerSize : headerSize+length]
	ev := Event{Kind: kind}
	switch kind {
	case KindLaserHead, KindGripper:
		ev.Pose = rig.Pose{
			GlobalPos: rig.Vertex{
				X: getFloat64(body, 0),
				Y: getFloat64(body, 8),
				Z: getFloat64(body, 16),
			},
			GlobalRotation: rig.RotationAngle{
				X: getFloat64(body, 24),
				Y: getFloat64(body, 32),
				Z: getFloat64(body, 40),
			},
		}
	case KindBodyState:
		ev.State = rig.BodyState(binary.LittleEndian.Uint32(body))
	case KindCalibResult:
		ev.Result = rig.CalibResult(binary.LittleEndian.Uint32(body))
	}
	return Record{At: at, Event: ev}, headerSize + length, nil
}

// Writer appends records to a feedback log.
type Writer struct {
	w     io.Writer
	start time.Time
	now   func() time.Time
}

// NewWriter creates a log writer. Offsets are measured from now.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, start: time.Now(), now: time.Now}
}

// Write logs ev at the current offset.
func (w *Writer) Write(ev Event) error {
	return w.WriteRecord(Record{At: w.now().Sub(w.start), Event: ev})
}

// WriteRecord logs r as given.
func (w *Writer) WriteRecord(r Record) error {
	buf, err := r.Encode()
	if err != nil {
		return err
	}
	_, err = w.w.Write(buf)
	return err
}

// Reader reads records from a feedback log.
type Reader struct {
	r   io.Reader
	hdr [headerSize]byte
}

// NewReader creates a log reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next returns the next record, or io.EOF at the end of the log.
func (r *Reader) Next() (Record, error) {
	if _, err := io.ReadFull(r.r, r.hdr[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Record{}, fmt.Errorf("%w: short header", ErrBadRecord)
		}
		return Record{}, err
	}

	length := int(binary.LittleEndian.Uint16(r.hdr[2:]))
	buf := make([]byte, headerSize+length)
	copy(buf, r.hdr[:])
	if _, err := io.ReadFull(r.r, buf[headerSize:]); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrBadRecord, err)
	}

	rec, _, err := DecodeRecord(buf)
	return rec, err
}

func putFloat64(buf []byte, offset int, v float64) {
	binary.LittleEndian.PutUint64(buf[offset:], math.Float64bits(v))
}

func getFloat64(buf []byte, offset int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[offset:]))
}
