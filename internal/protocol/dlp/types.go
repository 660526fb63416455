package dlp

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/danmuck/hotsync/internal/protocol/schema"
)

// FourCC is a four-character database type or creator code.
type FourCC uint32

func (c FourCC) String() string {
	b := []byte{byte(c >> 24), byte(c >> 16), byte(c >> 8), byte(c)}
	for _, ch := range b {
		if ch < 0x20 || ch > 0x7E {
			return fmt.Sprintf("%#08x", uint32(c))
		}
	}
	return string(b)
}

func ParseFourCC(s string) (FourCC, error) {
	if len(s) != 4 {
		return 0, fmt.Errorf("dlp: four-character code %q must be 4 bytes", s)
	}
	return FourCC(uint32(s[0])<<24 | uint32(s[1])<<16 | uint32(s[2])<<8 | uint32(s[3])), nil
}

// OpenMode is the access mode bitmask for OpenDB.
type OpenMode uint8

const (
	OpenRead      OpenMode = 0x80
	OpenWrite     OpenMode = 0x40
	OpenExclusive OpenMode = 0x20
	OpenSecret    OpenMode = 0x10
	OpenReadWrite          = OpenRead | OpenWrite
)

// RecordInfo describes one database record.
type RecordInfo struct {
	RecordID   uint32
	Index      uint16
	Size       uint16
	Attributes uint8
	Category   uint8
}

// ReadRecordResponse is a record header followed by its data.
type ReadRecordResponse struct {
	Info RecordInfo
	Data []byte `binary:"len=rest"`
}

// UserInfo is the device owner record. Name and password lengths include the
// terminating NUL the device stores.
type UserInfo struct {
	UserID          uint32
	ViewerID        uint32
	LastSyncPC      uint32
	LastSuccessSync DateTime
	LastSync        DateTime
	UserNameLen     uint8
	PasswordLen     uint8
	UserName        []byte `binary:"len=UserNameLen"`
	Password        []byte `binary:"len=PasswordLen"`
}

// Name returns UserName without its terminator.
func (u *UserInfo) Name() string {
	name := u.UserName
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	return string(name)
}

// DBInfo is one ReadDBList entry. Entries are padded to TotalSize.
type DBInfo struct {
	_         schema.Layout `binary:"min=TotalSize"`
	TotalSize uint8
	MiscFlags uint8
	Flags     uint16
	Type      FourCC
	Creator   FourCC
	Version   uint16
	ModNum    uint32
	Created   DateTime
	Modified  DateTime
	Backup    DateTime
	Index     uint16
	Name      string `binary:"cstring"`
}

// ReadDBListResponse is one page of database entries.
type ReadDBListResponse struct {
	LastIndex uint16
	Flags     uint8
	Count     uint8
	DBs       []DBInfo `binary:"len=Count"`
}

// SysInfo is the ReadSysInfo response. Protocol versions are only present on
// devices that report them.
type SysInfo struct {
	ROMVersion   uint32
	Locale       uint32
	Reserved     uint8
	ProductIDLen uint8
	ProductID    []byte `binary:"len=ProductIDLen"`
	HasVersions  bool
	DLPMajor     uint16 `binary:"if=HasVersions"`
	DLPMinor     uint16 `binary:"if=HasVersions"`
	MaxRecSize   uint32 `binary:"if=HasVersions"`
}

// OpenDBRequest opens a database by name on a card.
type OpenDBRequest struct {
	Card uint8
	Mode OpenMode
	Name string `binary:"cstring"`
}

// CardInfo is one ReadStorageInfo entry.
type CardInfo struct {
	Card    uint8
	Version uint8
	Created DateTime
	ROMSize uint32
	RAMSize uint32
	FreeRAM uint32
	Name    string `binary:"size=32,nul"`
	Maker   string `binary:"size=32,nul"`
}

// GeneratedTypes lists the bodies dlp_codec.go is generated for.
func GeneratedTypes() []reflect.Type {
	return []reflect.Type{
		reflect.TypeFor[RecordInfo](),
		reflect.TypeFor[ReadRecordResponse](),
		reflect.TypeFor[UserInfo](),
		reflect.TypeFor[DBInfo](),
		reflect.TypeFor[ReadDBListResponse](),
		reflect.TypeFor[SysInfo](),
		reflect.TypeFor[OpenDBRequest](),
		reflect.TypeFor[CardInfo](),
	}
}
