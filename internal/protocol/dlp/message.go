package dlp

import (
	"encoding/binary"
	"fmt"

	"github.com/danmuck/hotsync/internal/protocol/codec"
	"github.com/danmuck/hotsync/internal/protocol/wire"
)

// Command is a DLP function id. Responses carry the id with responseFlag set.
type Command byte

const responseFlag Command = 0x80

const (
	CmdReadUserInfo    Command = 0x10
	CmdWriteUserInfo   Command = 0x11
	CmdReadSysInfo     Command = 0x12
	CmdGetSysDateTime  Command = 0x13
	CmdSetSysDateTime  Command = 0x14
	CmdReadStorageInfo Command = 0x15
	CmdReadDBList      Command = 0x16
	CmdOpenDB          Command = 0x17
	CmdCreateDB        Command = 0x18
	CmdCloseDB         Command = 0x19
	CmdDeleteDB        Command = 0x1A
	CmdReadRecord      Command = 0x20
	CmdWriteRecord     Command = 0x21
	CmdDeleteRecord    Command = 0x22
	CmdOpenConduit     Command = 0x2E
	CmdEndOfSync       Command = 0x2F
)

var commandNames = map[Command]string{
	CmdReadUserInfo:    "ReadUserInfo",
	CmdWriteUserInfo:   "WriteUserInfo",
	CmdReadSysInfo:     "ReadSysInfo",
	CmdGetSysDateTime:  "GetSysDateTime",
	CmdSetSysDateTime:  "SetSysDateTime",
	CmdReadStorageInfo: "ReadStorageInfo",
	CmdReadDBList:      "ReadDBList",
	CmdOpenDB:          "OpenDB",
	CmdCreateDB:        "CreateDB",
	CmdCloseDB:         "CloseDB",
	CmdDeleteDB:        "DeleteDB",
	CmdReadRecord:      "ReadRecord",
	CmdWriteRecord:     "WriteRecord",
	CmdDeleteRecord:    "DeleteRecord",
	CmdOpenConduit:     "OpenConduit",
	CmdEndOfSync:       "EndOfSync",
}

func (c Command) String() string {
	if name, ok := commandNames[c&^responseFlag]; ok {
		return name
	}
	return fmt.Sprintf("cmd(%#02x)", byte(c))
}

// ResultCode is the status word of a response.
type ResultCode uint16

const (
	ResultOK ResultCode = iota
	ResultSystem
	ResultIllegalRequest
	ResultMemory
	ResultParam
	ResultNotFound
	ResultNoneOpen
	ResultAlreadyOpen
	ResultTooManyOpen
	ResultExists
	ResultOpen
	ResultDeleted
	ResultBusy
	ResultNotSupported
	_
	ResultReadOnly
	ResultSpace
	ResultLimit
	ResultSync
	ResultWrapper
	ResultArgument
	ResultSize
)

var resultNames = [...]string{
	ResultOK:             "ok",
	ResultSystem:         "system error",
	ResultIllegalRequest: "illegal request",
	ResultMemory:         "out of memory",
	ResultParam:          "invalid parameter",
	ResultNotFound:       "not found",
	ResultNoneOpen:       "no database open",
	ResultAlreadyOpen:    "database already open",
	ResultTooManyOpen:    "too many open databases",
	ResultExists:         "already exists",
	ResultOpen:           "database is open",
	ResultDeleted:        "record deleted",
	ResultBusy:           "record busy",
	ResultNotSupported:   "not supported",
	ResultReadOnly:       "read only",
	ResultSpace:          "not enough space",
	ResultLimit:          "limit exceeded",
	ResultSync:           "sync canceled",
	ResultWrapper:        "bad argument wrapper",
	ResultArgument:       "missing argument",
	ResultSize:           "invalid argument size",
}

func (c ResultCode) String() string {
	if int(c) < len(resultNames) && resultNames[c] != "" {
		return resultNames[c]
	}
	return fmt.Sprintf("result(%d)", uint16(c))
}

// Request is a DLP call: command id, argument count, arguments.
type Request struct {
	Command Command
	Args    []Arg
}

func (q Request) SizeBinary() int {
	return 2 + sizeArgs(q.Args)
}

func (q Request) WriteBinary(w *wire.Writer) error {
	if q.Command&responseFlag != 0 {
		return fmt.Errorf("dlp: request command %#02x has the response bit set", byte(q.Command))
	}
	w.Uint8(byte(q.Command))
	w.Uint8(uint8(len(q.Args)))
	return writeArgs(w, q.Args)
}

func (q *Request) ReadBinary(r *wire.Reader) error {
	cmd, err := r.Uint8()
	if err != nil {
		return ErrTruncated
	}
	argc, err := r.Uint8()
	if err != nil {
		return ErrTruncated
	}
	args, err := readArgs(r, int(argc))
	if err != nil {
		return err
	}
	q.Command = Command(cmd)
	q.Args = args
	return nil
}

// Arg returns the argument with id or ErrMissingArg.
func (q *Request) Arg(id byte) (Arg, error) {
	if a, ok := GetArg(q.Args, id); ok {
		return a, nil
	}
	return Arg{}, fmt.Errorf("%w: %s %#02x", ErrMissingArg, q.Command, id)
}

// Response answers a Request with the same command id.
type Response struct {
	Command Command
	Result  ResultCode
	Args    []Arg
}

func (p Response) SizeBinary() int {
	return 4 + sizeArgs(p.Args)
}

func (p Response) WriteBinary(w *wire.Writer) error {
	w.Uint8(byte(p.Command | responseFlag))
	w.Uint8(uint8(len(p.Args)))
	w.Uint16(uint16(p.Result), binary.BigEndian)
	return writeArgs(w, p.Args)
}

func (p *Response) ReadBinary(r *wire.Reader) error {
	cmd, err := r.Uint8()
	if err != nil {
		return ErrTruncated
	}
	if Command(cmd)&responseFlag == 0 {
		return fmt.Errorf("%w: %#02x is not a response", ErrResponseMismatch, cmd)
	}
	argc, err := r.Uint8()
	if err != nil {
		return ErrTruncated
	}
	result, err := r.Uint16(binary.BigEndian)
	if err != nil {
		return ErrTruncated
	}
	args, err := readArgs(r, int(argc))
	if err != nil {
		return err
	}
	p.Command = Command(cmd) &^ responseFlag
	p.Result = ResultCode(result)
	p.Args = args
	return nil
}

// Err reports a non-zero result as a *ResponseError.
func (p *Response) Err() error {
	if p.Result == ResultOK {
		return nil
	}
	return &ResponseError{Command: p.Command, Code: p.Result}
}

// Arg returns the argument with id or ErrMissingArg.
func (p *Response) Arg(id byte) (Arg, error) {
	if a, ok := GetArg(p.Args, id); ok {
		return a, nil
	}
	return Arg{}, fmt.Errorf("%w: %s %#02x", ErrMissingArg, p.Command, id)
}

// EncodeRequest builds the wire form of a call with one argument per body,
// numbered from FirstArgID.
func EncodeRequest(cmd Command, bodies ...any) ([]byte, error) {
	req := Request{Command: cmd}
	for i, body := range bodies {
		arg, err := NewArg(FirstArgID+byte(i), body)
		if err != nil {
			return nil, fmt.Errorf("dlp: %s argument %d: %w", cmd, i, err)
		}
		req.Args = append(req.Args, arg)
	}
	return codec.Marshal(req)
}

// DecodeResponse parses a response to cmd.
func DecodeResponse(cmd Command, data []byte) (*Response, error) {
	var resp Response
	if _, err := codec.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	if resp.Command != cmd {
		return nil, fmt.Errorf("%w: sent %s, got %s", ErrResponseMismatch, cmd, resp.Command)
	}
	return &resp, nil
}
