package errors

import "strconv"

// ERR is the numeric error code carried by every *Error.
type ERR int32

const (
	ERR_UNKNOWN                 ERR = 0
	ERR_INVALID_ARGUMENT        ERR = 1
	ERR_NOT_FOUND               ERR = 2
	ERR_PROCESSING              ERR = 3
	ERR_CONFIGURATION           ERR = 4
	ERR_CONTEXT_CANCELED        ERR = 5
	ERR_ERROR                   ERR = 9
	ERR_INVARIANT_VIOLATION     ERR = 10
	ERR_BLOCK_INVALID           ERR = 20
	ERR_BLOCK_HEADER_INVALID    ERR = 21
	ERR_BLOCK_MERKLE_ROOT       ERR = 22
	ERR_BLOCK_COINBASE_INVALID  ERR = 23
	ERR_TX_NOT_FOUND            ERR = 30
	ERR_TX_INVALID              ERR = 31
	ERR_TX_INVALID_DOUBLE_SPEND ERR = 32
	ERR_TX_ALREADY_EXISTS       ERR = 33
	ERR_TX_INVALID_SCRIPT       ERR = 34
	ERR_TX_INVALID_SIGNATURE    ERR = 35
	ERR_LOCKTIME                ERR = 36
	ERR_STORAGE_ERROR           ERR = 40
	ERR_STORAGE_UNAVAILABLE     ERR = 41
)

var ERR_name = map[int32]string{
	0:  "UNKNOWN",
	1:  "INVALID_ARGUMENT",
	2:  "NOT_FOUND",
	3:  "PROCESSING",
	4:  "CONFIGURATION",
	5:  "CONTEXT_CANCELED",
	9:  "ERROR",
	10: "INVARIANT_VIOLATION",
	20: "BLOCK_INVALID",
	21: "BLOCK_HEADER_INVALID",
	22: "BLOCK_MERKLE_ROOT",
	23: "BLOCK_COINBASE_INVALID",
	30: "TX_NOT_FOUND",
	31: "TX_INVALID",
	32: "TX_INVALID_DOUBLE_SPEND",
	33: "TX_ALREADY_EXISTS",
	34: "TX_INVALID_SCRIPT",
	35: "TX_INVALID_SIGNATURE",
	36: "LOCKTIME",
	40: "STORAGE_ERROR",
	41: "STORAGE_UNAVAILABLE",
}

var ERR_value = func() map[string]int32 {
	m := make(map[string]int32, len(ERR_name))
	for k, v := range ERR_name {
		m[v] = k
	}

	return m
}()

func (x ERR) String() string {
	if name, ok := ERR_name[int32(x)]; ok {
		return name
	}

	return strconv.Itoa(int(x))
}

// Enum returns the code name, matching the accessor used in error strings.
func (x ERR) Enum() string {
	return x.String()
}
