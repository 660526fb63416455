package slp

// CRC-16 parameters: polynomial 0x1021, initial value 0, no reflection, no
// final xor. The check value over "123456789" is 0x31C3.
const (
	crc16Poly uint16 = 0x1021
	crc16Init uint16 = 0x0000
)

var crc16Table = makeCRC16Table(crc16Poly)

func makeCRC16Table(poly uint16) *[256]uint16 {
	var table [256]uint16
	for i := range table {
		crc := uint16(i) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
	return &table
}

// CRC16 computes the footer CRC over data.
func CRC16(data []byte) uint16 {
	return UpdateCRC16(crc16Init, data)
}

// UpdateCRC16 continues a CRC computation with more data.
func UpdateCRC16(crc uint16, data []byte) uint16 {
	for _, b := range data {
		crc = crc<<8 ^ crc16Table[byte(crc>>8)^b]
	}
	return crc
}

// HeaderChecksum is the 8-bit truncated sum of the given header bytes.
func HeaderChecksum(header []byte) byte {
	var sum byte
	for _, b := range header {
		sum += b
	}
	return sum
}
