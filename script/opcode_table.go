package script

// Opcode is a single script instruction byte.
type Opcode uint8

const (
	OP_0                   Opcode = 0x00
	OP_PUSHDATA1           Opcode = 0x4c
	OP_PUSHDATA2           Opcode = 0x4d
	OP_PUSHDATA4           Opcode = 0x4e
	OP_1NEGATE             Opcode = 0x4f
	OP_1                   Opcode = 0x51
	OP_2                   Opcode = 0x52
	OP_3                   Opcode = 0x53
	OP_4                   Opcode = 0x54
	OP_5                   Opcode = 0x55
	OP_6                   Opcode = 0x56
	OP_7                   Opcode = 0x57
	OP_8                   Opcode = 0x58
	OP_9                   Opcode = 0x59
	OP_10                  Opcode = 0x5a
	OP_11                  Opcode = 0x5b
	OP_12                  Opcode = 0x5c
	OP_13                  Opcode = 0x5d
	OP_14                  Opcode = 0x5e
	OP_15                  Opcode = 0x5f
	OP_16                  Opcode = 0x60
	OP_IF                  Opcode = 0x63
	OP_NOTIF               Opcode = 0x64
	OP_VERIF               Opcode = 0x65
	OP_VERNOTIF            Opcode = 0x66
	OP_ELSE                Opcode = 0x67
	OP_ENDIF               Opcode = 0x68
	OP_VERIFY              Opcode = 0x69
	OP_RETURN              Opcode = 0x6a
	OP_TOALTSTACK          Opcode = 0x6b
	OP_FROMALTSTACK        Opcode = 0x6c
	OP_2DROP               Opcode = 0x6d
	OP_2DUP                Opcode = 0x6e
	OP_3DUP                Opcode = 0x6f
	OP_2OVER               Opcode = 0x70
	OP_2ROT                Opcode = 0x71
	OP_2SWAP               Opcode = 0x72
	OP_IFDUP               Opcode = 0x73
	OP_DEPTH               Opcode = 0x74
	OP_DROP                Opcode = 0x75
	OP_DUP                 Opcode = 0x76
	OP_NIP                 Opcode = 0x77
	OP_OVER                Opcode = 0x78
	OP_PICK                Opcode = 0x79
	OP_ROLL                Opcode = 0x7a
	OP_ROT                 Opcode = 0x7b
	OP_SWAP                Opcode = 0x7c
	OP_TUCK                Opcode = 0x7d
	OP_CAT                 Opcode = 0x7e
	OP_SUBSTR              Opcode = 0x7f
	OP_LEFT                Opcode = 0x80
	OP_RIGHT               Opcode = 0x81
	OP_SIZE                Opcode = 0x82
	OP_INVERT              Opcode = 0x83
	OP_AND                 Opcode = 0x84
	OP_OR                  Opcode = 0x85
	OP_XOR                 Opcode = 0x86
	OP_EQUAL               Opcode = 0x87
	OP_EQUALVERIFY         Opcode = 0x88
	OP_1ADD                Opcode = 0x8b
	OP_1SUB                Opcode = 0x8c
	OP_2MUL                Opcode = 0x8d
	OP_2DIV                Opcode = 0x8e
	OP_NEGATE              Opcode = 0x8f
	OP_ABS                 Opcode = 0x90
	OP_NOT                 Opcode = 0x91
	OP_0NOTEQUAL           Opcode = 0x92
	OP_ADD                 Opcode = 0x93
	OP_SUB                 Opcode = 0x94
	OP_MUL                 Opcode = 0x95
	OP_DIV                 Opcode = 0x96
	OP_MOD                 Opcode = 0x97
	OP_LSHIFT              Opcode = 0x98
	OP_RSHIFT              Opcode = 0x99
	OP_BOOLAND             Opcode = 0x9a
	OP_BOOLOR              Opcode = 0x9b
	OP_NUMEQUAL            Opcode = 0x9c
	OP_NUMEQUALVERIFY      Opcode = 0x9d
	OP_NUMNOTEQUAL         Opcode = 0x9e
	OP_LESSTHAN            Opcode = 0x9f
	OP_GREATERTHAN         Opcode = 0xa0
	OP_LESSTHANOREQUAL     Opcode = 0xa1
	OP_GREATERTHANOREQUAL  Opcode = 0xa2
	OP_MIN                 Opcode = 0xa3
	OP_MAX                 Opcode = 0xa4
	OP_WITHIN              Opcode = 0xa5
	OP_RIPEMD160           Opcode = 0xa6
	OP_SHA1                Opcode = 0xa7
	OP_SHA256              Opcode = 0xa8
	OP_HASH160             Opcode = 0xa9
	OP_HASH256             Opcode = 0xaa
	OP_CODESEPARATOR       Opcode = 0xab
	OP_CHECKSIG            Opcode = 0xac
	OP_CHECKSIGVERIFY      Opcode = 0xad
	OP_CHECKMULTISIG       Opcode = 0xae
	OP_CHECKMULTISIGVERIFY Opcode = 0xaf
	OP_BLAKE3              Opcode = 0xb0
	OP_DOUBLEBLAKE3        Opcode = 0xb1
	OP_CHECKLOCKABSVERIFY  Opcode = 0xb2
	OP_CHECKLOCKRELVERIFY  Opcode = 0xb3
)

// OP_FALSE and OP_TRUE alias the push-zero and push-one opcodes.
const (
	OP_FALSE = OP_0
	OP_TRUE  = OP_1
)

var opcodeNames = map[Opcode]string{
	OP_0:                   "0",
	OP_PUSHDATA1:           "PUSHDATA1",
	OP_PUSHDATA2:           "PUSHDATA2",
	OP_PUSHDATA4:           "PUSHDATA4",
	OP_1NEGATE:             "1NEGATE",
	OP_1:                   "1",
	OP_2:                   "2",
	OP_3:                   "3",
	OP_4:                   "4",
	OP_5:                   "5",
	OP_6:                   "6",
	OP_7:                   "7",
	OP_8:                   "8",
	OP_9:                   "9",
	OP_10:                  "10",
	OP_11:                  "11",
	OP_12:                  "12",
	OP_13:                  "13",
	OP_14:                  "14",
	OP_15:                  "15",
	OP_16:                  "16",
	OP_IF:                  "IF",
	OP_NOTIF:               "NOTIF",
	OP_VERIF:               "VERIF",
	OP_VERNOTIF:            "VERNOTIF",
	OP_ELSE:                "ELSE",
	OP_ENDIF:               "ENDIF",
	OP_VERIFY:              "VERIFY",
	OP_RETURN:              "RETURN",
	OP_TOALTSTACK:          "TOALTSTACK",
	OP_FROMALTSTACK:        "FROMALTSTACK",
	OP_2DROP:               "2DROP",
	OP_2DUP:                "2DUP",
	OP_3DUP:                "3DUP",
	OP_2OVER:               "2OVER",
	OP_2ROT:                "2ROT",
	OP_2SWAP:               "2SWAP",
	OP_IFDUP:               "IFDUP",
	OP_DEPTH:               "DEPTH",
	OP_DROP:                "DROP",
	OP_DUP:                 "DUP",
	OP_NIP:                 "NIP",
	OP_OVER:                "OVER",
	OP_PICK:                "PICK",
	OP_ROLL:                "ROLL",
	OP_ROT:                 "ROT",
	OP_SWAP:                "SWAP",
	OP_TUCK:                "TUCK",
	OP_CAT:                 "CAT",
	OP_SUBSTR:              "SUBSTR",
	OP_LEFT:                "LEFT",
	OP_RIGHT:               "RIGHT",
	OP_SIZE:                "SIZE",
	OP_INVERT:              "INVERT",
	OP_AND:                 "AND",
	OP_OR:                  "OR",
	OP_XOR:                 "XOR",
	OP_EQUAL:               "EQUAL",
	OP_EQUALVERIFY:         "EQUALVERIFY",
	OP_1ADD:                "1ADD",
	OP_1SUB:                "1SUB",
	OP_2MUL:                "2MUL",
	OP_2DIV:                "2DIV",
	OP_NEGATE:              "NEGATE",
	OP_ABS:                 "ABS",
	OP_NOT:                 "NOT",
	OP_0NOTEQUAL:           "0NOTEQUAL",
	OP_ADD:                 "ADD",
	OP_SUB:                 "SUB",
	OP_MUL:                 "MUL",
	OP_DIV:                 "DIV",
	OP_MOD:                 "MOD",
	OP_LSHIFT:              "LSHIFT",
	OP_RSHIFT:              "RSHIFT",
	OP_BOOLAND:             "BOOLAND",
	OP_BOOLOR:              "BOOLOR",
	OP_NUMEQUAL:            "NUMEQUAL",
	OP_NUMEQUALVERIFY:      "NUMEQUALVERIFY",
	OP_NUMNOTEQUAL:         "NUMNOTEQUAL",
	OP_LESSTHAN:            "LESSTHAN",
	OP_GREATERTHAN:         "GREATERTHAN",
	OP_LESSTHANOREQUAL:     "LESSTHANOREQUAL",
	OP_GREATERTHANOREQUAL:  "GREATERTHANOREQUAL",
	OP_MIN:                 "MIN",
	OP_MAX:                 "MAX",
	OP_WITHIN:              "WITHIN",
	OP_RIPEMD160:           "RIPEMD160",
	OP_SHA1:                "SHA1",
	OP_SHA256:              "SHA256",
	OP_HASH160:             "HASH160",
	OP_HASH256:             "HASH256",
	OP_CODESEPARATOR:       "CODESEPARATOR",
	OP_CHECKSIG:            "CHECKSIG",
	OP_CHECKSIGVERIFY:      "CHECKSIGVERIFY",
	OP_CHECKMULTISIG:       "CHECKMULTISIG",
	OP_CHECKMULTISIGVERIFY: "CHECKMULTISIGVERIFY",
	OP_BLAKE3:              "BLAKE3",
	OP_DOUBLEBLAKE3:        "DOUBLEBLAKE3",
	OP_CHECKLOCKABSVERIFY:  "CHECKLOCKABSVERIFY",
	OP_CHECKLOCKRELVERIFY:  "CHECKLOCKRELVERIFY",
}
