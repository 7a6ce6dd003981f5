package coordinator

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/jeamy/golomb/internal/bitset"
	"github.com/jeamy/golomb/internal/ruler"
)

// Tag identifies the kind of message on the wire: the four coordination
// message kinds plus the final-election record.
type Tag byte

const (
	TagRequest Tag = iota + 1
	TagAssignment
	TagBoundUpdate
	TagTerminate
	TagFinalElection
	TagCounterUpdate
)

func (t Tag) String() string {
	switch t {
	case TagRequest:
		return "Request"
	case TagAssignment:
		return "Assignment"
	case TagBoundUpdate:
		return "BoundUpdate"
	case TagTerminate:
		return "Terminate"
	case TagFinalElection:
		return "FinalElection"
	case TagCounterUpdate:
		return "CounterUpdate"
	default:
		return fmt.Sprintf("Tag(%d)", byte(t))
	}
}

// Request is sent by a worker to ask the coordinator for the next prefix,
// piggybacking the worker's current local best bound.
type Request struct {
	WorkerRank      int32
	WorkerLocalBest int32
}

// Assignment carries the coordinator's current global bound together with
// the prefix state to explore.
type Assignment struct {
	GlobalBestLen int32
	Prefix        ruler.State
}

// BoundUpdate is a fire-and-forget notification of an improved bound,
// used both for coordinator-to-worker pushes and worker-to-worker
// hypercube relay in Design B.
type BoundUpdate struct {
	NewBestLen int32
}

// Terminate carries no payload; its Tag alone tells the receiver to stop.
type Terminate struct{}

// FinalElection is broadcast by the elected winner at the end of a run.
type FinalElection struct {
	BestLen int32
	Marks   []int32
}

// Envelope is the on-wire unit: a tag plus its encoded payload and a
// checksum trailer guarding against corrupted or truncated messages. All
// integers are little-endian; BitSet128 fields are two 64-bit words, low
// limb first.
type Envelope struct {
	Tag     Tag
	Payload []byte
}

const checksumSize = 8

var checksumKey = [16]byte{'g', 'o', 'l', 'o', 'm', 'b', '-', 'w', 'i', 'r', 'e', '-', 'v', '0', '0', '1'}

func checksum(tag Tag, payload []byte) [checksumSize]byte {
	h, err := blake2b.New(checksumSize, checksumKey[:])
	if err != nil {
		// Only invalid key sizes make New fail, and our key is fixed and
		// valid; a failure here means the crypto library's contract changed.
		panic(err)
	}
	h.Write([]byte{byte(tag)})
	h.Write(payload)
	var out [checksumSize]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Marshal encodes an Envelope as [tag(1)][len(4)][payload][checksum(8)].
func (e Envelope) Marshal() []byte {
	buf := make([]byte, 1+4+len(e.Payload)+checksumSize)
	buf[0] = byte(e.Tag)
	binary.LittleEndian.PutUint32(buf[1:5], uint32(len(e.Payload)))
	copy(buf[5:], e.Payload)
	sum := checksum(e.Tag, e.Payload)
	copy(buf[5+len(e.Payload):], sum[:])
	return buf
}

// UnmarshalEnvelope decodes and checksum-verifies a wire buffer produced
// by Envelope.Marshal, returning ProtocolViolationError on any mismatch.
func UnmarshalEnvelope(rank int, data []byte) (Envelope, error) {
	if len(data) < 1+4+checksumSize {
		return Envelope{}, ProtocolViolationError{Rank: rank, Msg: "envelope shorter than header+checksum"}
	}
	tag := Tag(data[0])
	payloadLen := binary.LittleEndian.Uint32(data[1:5])
	want := 1 + 4 + int(payloadLen) + checksumSize
	if len(data) != want {
		return Envelope{}, ProtocolViolationError{Rank: rank, Msg: "envelope length does not match declared payload size"}
	}
	payload := data[5 : 5+payloadLen]
	trailer := data[5+payloadLen:]
	sum := checksum(tag, payload)
	if !equalBytes(sum[:], trailer) {
		return Envelope{}, ProtocolViolationError{Rank: rank, Msg: "checksum mismatch"}
	}
	return Envelope{Tag: tag, Payload: append([]byte(nil), payload...)}, nil
}

func equalBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// EncodeRequest serializes a Request payload.
func EncodeRequest(r Request) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(r.WorkerRank))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(r.WorkerLocalBest))
	return buf
}

// DecodeRequest parses a Request payload produced by EncodeRequest.
func DecodeRequest(rank int, payload []byte) (Request, error) {
	if len(payload) != 8 {
		return Request{}, ProtocolViolationError{Rank: rank, Msg: "malformed Request payload"}
	}
	return Request{
		WorkerRank:      int32(binary.LittleEndian.Uint32(payload[0:4])),
		WorkerLocalBest: int32(binary.LittleEndian.Uint32(payload[4:8])),
	}, nil
}

// prefixStateSize is the encoded size of a ruler.State: two BitSet128
// fields (16 bytes each) plus marks_count and ruler_length (4 bytes each).
const prefixStateSize = 16 + 16 + 4 + 4

func encodePrefixState(s ruler.State) []byte {
	buf := make([]byte, prefixStateSize)
	rm, _ := s.ReversedMarks.MarshalBinary()
	ud, _ := s.UsedDiffs.MarshalBinary()
	copy(buf[0:16], rm)
	copy(buf[16:32], ud)
	binary.LittleEndian.PutUint32(buf[32:36], uint32(s.MarksCount))
	binary.LittleEndian.PutUint32(buf[36:40], uint32(s.RulerLength))
	return buf
}

func decodePrefixState(rank int, buf []byte) (ruler.State, error) {
	if len(buf) != prefixStateSize {
		return ruler.State{}, ProtocolViolationError{Rank: rank, Msg: "malformed prefix state"}
	}
	var rm, ud bitset.BitSet128
	if err := rm.UnmarshalBinary(buf[0:16]); err != nil {
		return ruler.State{}, ProtocolViolationError{Rank: rank, Msg: "malformed reversed_marks"}
	}
	if err := ud.UnmarshalBinary(buf[16:32]); err != nil {
		return ruler.State{}, ProtocolViolationError{Rank: rank, Msg: "malformed used_diffs"}
	}
	return ruler.State{
		ReversedMarks: rm,
		UsedDiffs:     ud,
		MarksCount:    int(binary.LittleEndian.Uint32(buf[32:36])),
		RulerLength:   int(binary.LittleEndian.Uint32(buf[36:40])),
	}, nil
}

// EncodeAssignment serializes an Assignment payload.
func EncodeAssignment(a Assignment) []byte {
	buf := make([]byte, 4+prefixStateSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(a.GlobalBestLen))
	copy(buf[4:], encodePrefixState(a.Prefix))
	return buf
}

// DecodeAssignment parses an Assignment payload produced by EncodeAssignment.
func DecodeAssignment(rank int, payload []byte) (Assignment, error) {
	if len(payload) != 4+prefixStateSize {
		return Assignment{}, ProtocolViolationError{Rank: rank, Msg: "malformed Assignment payload"}
	}
	prefix, err := decodePrefixState(rank, payload[4:])
	if err != nil {
		return Assignment{}, err
	}
	return Assignment{
		GlobalBestLen: int32(binary.LittleEndian.Uint32(payload[0:4])),
		Prefix:        prefix,
	}, nil
}

// EncodeBoundUpdate serializes a BoundUpdate payload.
func EncodeBoundUpdate(b BoundUpdate) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(b.NewBestLen))
	return buf
}

// DecodeBoundUpdate parses a BoundUpdate payload produced by EncodeBoundUpdate.
func DecodeBoundUpdate(rank int, payload []byte) (BoundUpdate, error) {
	if len(payload) != 4 {
		return BoundUpdate{}, ProtocolViolationError{Rank: rank, Msg: "malformed BoundUpdate payload"}
	}
	return BoundUpdate{NewBestLen: int32(binary.LittleEndian.Uint32(payload))}, nil
}

// EncodeCounterUpdate serializes a 64-bit explored-state counter, used by
// the hypercube sum all-reduce at the final election.
func EncodeCounterUpdate(v int64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(v))
	return buf
}

// DecodeCounterUpdate parses a payload produced by EncodeCounterUpdate.
func DecodeCounterUpdate(rank int, payload []byte) (int64, error) {
	if len(payload) != 8 {
		return 0, ProtocolViolationError{Rank: rank, Msg: "malformed CounterUpdate payload"}
	}
	return int64(binary.LittleEndian.Uint64(payload)), nil
}

// EncodeFinalElection serializes a FinalElection payload.
func EncodeFinalElection(f FinalElection) []byte {
	buf := make([]byte, 4+4+4*len(f.Marks))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(f.BestLen))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(f.Marks)))
	for i, m := range f.Marks {
		binary.LittleEndian.PutUint32(buf[8+4*i:12+4*i], uint32(m))
	}
	return buf
}

// DecodeFinalElection parses a FinalElection payload produced by
// EncodeFinalElection.
func DecodeFinalElection(rank int, payload []byte) (FinalElection, error) {
	if len(payload) < 8 {
		return FinalElection{}, ProtocolViolationError{Rank: rank, Msg: "malformed FinalElection payload"}
	}
	count := binary.LittleEndian.Uint32(payload[4:8])
	if len(payload) != 8+4*int(count) {
		return FinalElection{}, ProtocolViolationError{Rank: rank, Msg: "FinalElection mark count does not match payload length"}
	}
	marks := make([]int32, count)
	for i := range marks {
		marks[i] = int32(binary.LittleEndian.Uint32(payload[8+4*i : 12+4*i]))
	}
	return FinalElection{
		BestLen: int32(binary.LittleEndian.Uint32(payload[0:4])),
		Marks:   marks,
	}, nil
}
