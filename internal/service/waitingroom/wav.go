package waitingroom

import (
	"bytes"
	"encoding/binary"
)

// encodeWAV wraps mono 16-bit PCM samples in a canonical RIFF/WAVE container.
func encodeWAV(samples []int16, sampleRate int) []byte {
	const (
		channels      = 1
		bitsPerSample = 16
		headerSize    = 44
	)
	dataSize := len(samples) * 2
	blockAlign := channels * bitsPerSample / 8

	buf := bytes.NewBuffer(make([]byte, 0, headerSize+dataSize))
	le := binary.LittleEndian

	buf.WriteString("RIFF")
	_ = binary.Write(buf, le, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(buf, le, uint32(16)) // PCM chunk size
	_ = binary.Write(buf, le, uint16(1))  // PCM format
	_ = binary.Write(buf, le, uint16(channels))
	_ = binary.Write(buf, le, uint32(sampleRate))
	_ = binary.Write(buf, le, uint32(sampleRate*blockAlign))
	_ = binary.Write(buf, le, uint16(blockAlign))
	_ = binary.Write(buf, le, uint16(bitsPerSample))

	buf.WriteString("data")
	_ = binary.Write(buf, le, uint32(dataSize))
	_ = binary.Write(buf, le, samples)

	return buf.Bytes()
}
