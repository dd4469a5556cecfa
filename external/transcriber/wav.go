package transcriber

import (
	"bytes"
	"encoding/binary"
)

const (
	pcmSampleRate    = 16000
	pcmChannels      = 1
	pcmBitsPerSample = 16
)

// wrapPCMAsWAV wraps raw 16-bit little-endian PCM in a WAV container.
func wrapPCMAsWAV(pcm []byte) []byte {
	const byteRate = pcmSampleRate * pcmChannels * pcmBitsPerSample / 8
	const blockAlign = pcmChannels * pcmBitsPerSample / 8

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(pcmChannels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(pcmSampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(pcmBitsPerSample))

	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}
