package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/gamedata/internal/hash"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type defines the compression algorithm used.
type Type uint8

const (
	// None stores blocks uncompressed.
	None Type = 0
	// LZ4 uses LZ4 block compression (fast, good for hot data).
	LZ4 Type = 1
	// ZSTD uses ZSTD compression (better ratio, good for cold data).
	ZSTD Type = 2
)

// String returns the stable name of the algorithm.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// ParseType returns the Type with the given stable name.
func ParseType(name string) (Type, error) {
	switch name {
	case "none", "":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return ZSTD, nil
	default:
		return None, fmt.Errorf("unknown compression %q", name)
	}
}

var (
	// ErrCorrupt is returned when a frame is truncated or fails its checksum.
	ErrCorrupt = errors.New("compress: corrupt frame")
)

const headerSize = 13

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// Encode frames data, compressing it with t when that saves at least 10%.
func Encode(data []byte, t Type) ([]byte, error) {
	if t > ZSTD {
		return nil, fmt.Errorf("compress: unsupported type %s", t)
	}

	var compressed []byte
	switch {
	case len(data) == 0 || t == None:
	case t == LZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		// n == 0 means incompressible
		compressed = buf[:n]
	case t == ZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		putZstdEncoder(enc)
	}

	stored := compressed
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		stored = nil
	}

	payload := data
	if stored != nil {
		payload = stored
	}

	out := make([]byte, headerSize+len(payload))
	out[0] = byte(t)
	binary.LittleEndian.PutUint32(out[1:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[5:], uint32(len(stored)))
	binary.LittleEndian.PutUint32(out[9:], hash.CRC32C(data))
	copy(out[headerSize:], payload)
	return out, nil
}

// Decode reverses Encode. The algorithm is read from the frame header.
func Decode(frame []byte) ([]byte, error) {
	if len(frame) < headerSize {
		return nil, fmt.Errorf("%w: frame too small for header", ErrCorrupt)
	}

	t := Type(frame[0])
	rawSize := binary.LittleEndian.Uint32(frame[1:])
	storedSize := binary.LittleEndian.Uint32(frame[5:])
	sum := binary.LittleEndian.Uint32(frame[9:])
	body := frame[headerSize:]

	var data []byte
	if storedSize == 0 {
		if uint32(len(body)) < rawSize {
			return nil, fmt.Errorf("%w: truncated payload", ErrCorrupt)
		}
		data = body[:rawSize]
	} else {
		if uint32(len(body)) < storedSize {
			return nil, fmt.Errorf("%w: truncated payload", ErrCorrupt)
		}
		var err error
		data, err = decompress(t, body[:storedSize], rawSize)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
	}

	if hash.CRC32C(data) != sum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}
	return data, nil
}

func decompress(t Type, payload []byte, rawSize uint32) ([]byte, error) {
	result := make([]byte, rawSize)

	switch t {
	case LZ4:
		n, err := lz4.UncompressBlock(payload, result)
		if err != nil {
			return nil, err
		}
		if uint32(n) != rawSize {
			return nil, errors.New("decompressed size mismatch")
		}
		return result, nil
	case ZSTD:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		decoded, err := dec.DecodeAll(payload, result[:0])
		if err != nil {
			return nil, err
		}
		if uint32(len(decoded)) != rawSize {
			return nil, errors.New("decompressed size mismatch")
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("unsupported type %s", t)
	}
}
