package core

// ST M25P16 16 Mbit serial NOR flash (Digilent PmodSF).
// Based on the M25P16 datasheet, instruction set pp. 18-34.
//
// Memory is 32 sectors of 256 pages, 256 bytes per page. Power-up takes at
// most 10 ms. All instructions clock at up to fC (50 MHz) except READ, which
// is limited to fR (20 MHz).

// M25P16 instruction opcodes
const (
	// Write Enable: sets WEL. Required before each PP, SE, BE and WRSR.
	M25P16_WREN = 0x06
	// Write Disable: resets WEL. Also the state after power-up and after
	// PP, SE, BE and WRSR complete.
	M25P16_WRDI = 0x04
	// Read Identification: manufacturer, memory type, capacity.
	M25P16_RDID = 0x9F
	// Read Status Register
	M25P16_RDSR = 0x05
	// Write Status Register: {SRWD, 0, 0, BP2, BP1, BP0, WEL, WIP}
	M25P16_WRSR = 0x01
	// Read Data Bytes from a 3-byte address until CS goes high (fR).
	M25P16_READ = 0x03
	// Read Data Bytes at Higher Speed; one dummy byte follows the address.
	M25P16_FAST_READ = 0x0B
	// Page Program: 1-256 bytes, wrapping at the page boundary.
	M25P16_PP = 0x02
	// Sector Erase, followed by a 3-byte address. WIP reads 1 until done.
	M25P16_SE = 0xD8
	// Bulk Erase of all 32 sectors; ignored unless BP2..BP0 are 0.
	M25P16_BE = 0xC7
	// Deep Power-down
	M25P16_DP = 0xB9
	// Release from Deep Power-down (and Read Electronic Signature)
	M25P16_RES = 0xAB
)

// Status register bits
const (
	M25P16_SR_WIP  = 0x01 // write in progress
	M25P16_SR_WEL  = 0x02 // write enable latch
	M25P16_SR_BP0  = 0x04
	M25P16_SR_BP1  = 0x08
	M25P16_SR_BP2  = 0x10
	M25P16_SR_SRWD = 0x80 // status register write disable
)

// Geometry
const (
	M25P16_PAGE_SIZE        = 256
	M25P16_PAGES_PER_SECTOR = 256
	M25P16_SECTOR_SIZE      = M25P16_PAGE_SIZE * M25P16_PAGES_PER_SECTOR // 64 KiB
	M25P16_SECTOR_COUNT     = 32
	M25P16_CAPACITY         = M25P16_SECTOR_SIZE * M25P16_SECTOR_COUNT // 2 MiB
)

// Timing and identification
const (
	M25P16_MAX_CLOCK      = 50000000 // fC
	M25P16_MAX_READ_CLOCK = 20000000 // fR
	M25P16_POWER_UP_MS    = 10

	M25P16_MANUFACTURER_ST = 0x20
	M25P16_MEMORY_TYPE     = 0x20
	M25P16_CAPACITY_CODE   = 0x15
	M25P16_SIGNATURE       = 0x14 // RES electronic signature
)

// Sector base addresses
const (
	M25P16_SECTOR00 = 0x000000
	M25P16_SECTOR01 = 0x010000
	M25P16_SECTOR02 = 0x020000
	M25P16_SECTOR03 = 0x030000
	M25P16_SECTOR04 = 0x040000
	M25P16_SECTOR05 = 0x050000
	M25P16_SECTOR06 = 0x060000
	M25P16_SECTOR07 = 0x070000
	M25P16_SECTOR08 = 0x080000
	M25P16_SECTOR09 = 0x090000
	M25P16_SECTOR10 = 0x0A0000
	M25P16_SECTOR11 = 0x0B0000
	M25P16_SECTOR12 = 0x0C0000
	M25P16_SECTOR13 = 0x0D0000
	M25P16_SECTOR14 = 0x0E0000
	M25P16_SECTOR15 = 0x0F0000
	M25P16_SECTOR16 = 0x100000
	M25P16_SECTOR17 = 0x110000
	M25P16_SECTOR18 = 0x120000
	M25P16_SECTOR19 = 0x130000
	M25P16_SECTOR20 = 0x140000
	M25P16_SECTOR21 = 0x150000
	M25P16_SECTOR22 = 0x160000
	M25P16_SECTOR23 = 0x170000
	M25P16_SECTOR24 = 0x180000
	M25P16_SECTOR25 = 0x190000
	M25P16_SECTOR26 = 0x1A0000
	M25P16_SECTOR27 = 0x1B0000
	M25P16_SECTOR28 = 0x1C0000
	M25P16_SECTOR29 = 0x1D0000
	M25P16_SECTOR30 = 0x1E0000
	M25P16_SECTOR31 = 0x1F0000
)

// M25P16Sectors lists the sector base addresses by sector number.
var M25P16Sectors = [M25P16_SECTOR_COUNT]uint32{
	M25P16_SECTOR00, M25P16_SECTOR01, M25P16_SECTOR02, M25P16_SECTOR03,
	M25P16_SECTOR04, M25P16_SECTOR05, M25P16_SECTOR06, M25P16_SECTOR07,
	M25P16_SECTOR08, M25P16_SECTOR09, M25P16_SECTOR10, M25P16_SECTOR11,
	M25P16_SECTOR12, M25P16_SECTOR13, M25P16_SECTOR14, M25P16_SECTOR15,
	M25P16_SECTOR16, M25P16_SECTOR17, M25P16_SECTOR18, M25P16_SECTOR19,
	M25P16_SECTOR20, M25P16_SECTOR21, M25P16_SECTOR22, M25P16_SECTOR23,
	M25P16_SECTOR24, M25P16_SECTOR25, M25P16_SECTOR26, M25P16_SECTOR27,
	M25P16_SECTOR28, M25P16_SECTOR29, M25P16_SECTOR30, M25P16_SECTOR31,
}

// SectorAddress returns the base address of sector n.
func SectorAddress(n int) (uint32, error) {
	if n < 0 || n >= M25P16_SECTOR_COUNT {
		return 0, ErrSectorRange
	}
	return M25P16Sectors[n], nil
}

// SectorOf returns the sector holding addr.
func SectorOf(addr uint32) (int, error) {
	if addr >= M25P16_CAPACITY {
		return 0, ErrAddressRange
	}
	return int(addr / M25P16_SECTOR_SIZE), nil
}
