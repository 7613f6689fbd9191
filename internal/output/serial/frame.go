package serial

// Frame layout:
//
//	[SOF0][SOF1][LEN][CMD][channel][level][CKS]
//
// LEN counts CMD and the payload. CKS is the XOR of LEN, CMD and the payload.
const (
	sof0            = 0xAA
	sof1            = 0x55
	cmdSetChannel   = 0x20
	setChannelBytes = 2
	frameSize       = 7
)

// EncodeSetChannel builds the frame that sets channel to level.
func EncodeSetChannel(channel, level byte) []byte {
	length := byte(setChannelBytes + 1)
	cks := length ^ cmdSetChannel ^ channel ^ level

	return []byte{sof0, sof1, length, cmdSetChannel, channel, level, cks}
}

// DecodeSetChannel parses a frame built by EncodeSetChannel.
func DecodeSetChannel(frame []byte) (channel, level byte, ok bool) {
	if len(frame) != frameSize || frame[0] != sof0 || frame[1] != sof1 {
		return 0, 0, false
	}

	if frame[2] != setChannelBytes+1 || frame[3] != cmdSetChannel {
		return 0, 0, false
	}

	if frame[2]^frame[3]^frame[4]^frame[5] != frame[6] {
		return 0, 0, false
	}

	return frame[4], frame[5], true
}
