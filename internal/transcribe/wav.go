package transcribe

import (
	"encoding/binary"
	"fmt"
	"os"
)

const (
	wavSampleRate = 16000
	wavChannels   = 1
	wavBitDepth   = 16
)

// wavFromPCM prepends a RIFF header to raw 16-bit 16kHz mono samples.
func wavFromPCM(pcm []byte) []byte {
	byteRate := wavSampleRate * wavChannels * wavBitDepth / 8
	blockAlign := wavChannels * wavBitDepth / 8
	dataSize := uint32(len(pcm))

	buf := make([]byte, 0, 44+len(pcm))
	buf = append(buf, "RIFF"...)
	buf = binary.LittleEndian.AppendUint32(buf, 36+dataSize)
	buf = append(buf, "WAVE"...)
	buf = append(buf, "fmt "...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1) // PCM
	buf = binary.LittleEndian.AppendUint16(buf, wavChannels)
	buf = binary.LittleEndian.AppendUint32(buf, wavSampleRate)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(byteRate))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(blockAlign))
	buf = binary.LittleEndian.AppendUint16(buf, wavBitDepth)
	buf = append(buf, "data"...)
	buf = binary.LittleEndian.AppendUint32(buf, dataSize)
	buf = append(buf, pcm...)

	return buf
}

// materialize returns a path to the audio on disk. Raw PCM frames are
// written to a temp WAV file; cleanup reports whether the caller owns
// the file and should remove it.
func materialize(audio Audio) (path string, cleanup bool, err error) {
	if audio.Path != "" {
		return audio.Path, false, nil
	}

	f, err := os.CreateTemp("", "live-audio-*.wav")
	if err != nil {
		return "", false, fmt.Errorf("create temp wav: %w", err)
	}
	if _, err := f.Write(wavFromPCM(audio.PCM)); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", false, fmt.Errorf("write temp wav: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", false, fmt.Errorf("close temp wav: %w", err)
	}

	return f.Name(), true, nil
}
