package frame

// checksumSeed is the initial value of the panel checksum.
const checksumSeed uint16 = 0x147A

// Checksum computes the 16-bit panel checksum over command and payload bytes.
// Per byte the running value is rotated left by one, inverted, and then the
// high byte and the data byte are added.
func Checksum(data []byte) uint16 {
	crc := checksumSeed
	for _, b := range data {
		crc = crc<<1 | crc>>15
		crc ^= 0xFFFF
		crc += crc>>8 + uint16(b)
	}
	return crc
}
