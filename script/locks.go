package script

// Relative locks are measured in blocks; 144 blocks per day.
const (
	Pkhx90dLockRel = 12960
	Pkhx1hLockRel  = 6

	Pkhxr90d60dExpiryLockRel   = 12960
	Pkhxr90d60dRecoveryLockRel = 8640
	Pkhxr1h40mExpiryLockRel    = 6
	Pkhxr1h40mRecoveryLockRel  = 4
)

func reached(newBlockNum, createdBlockNum uint32, lockRel uint32) bool {
	return uint64(newBlockNum) >= uint64(createdBlockNum)+uint64(lockRel)
}

func IsPkhx90dExpired(newBlockNum, createdBlockNum uint32) bool {
	return reached(newBlockNum, createdBlockNum, Pkhx90dLockRel)
}

func IsPkhx1hExpired(newBlockNum, createdBlockNum uint32) bool {
	return reached(newBlockNum, createdBlockNum, Pkhx1hLockRel)
}

func IsPkhxr90d60dExpired(newBlockNum, createdBlockNum uint32) bool {
	return reached(newBlockNum, createdBlockNum, Pkhxr90d60dExpiryLockRel)
}

func IsPkhxr90d60dRecoverable(newBlockNum, createdBlockNum uint32) bool {
	return reached(newBlockNum, createdBlockNum, Pkhxr90d60dRecoveryLockRel)
}

func IsPkhxr1h40mExpired(newBlockNum, createdBlockNum uint32) bool {
	return reached(newBlockNum, createdBlockNum, Pkhxr1h40mExpiryLockRel)
}

func IsPkhxr1h40mRecoverable(newBlockNum, createdBlockNum uint32) bool {
	return reached(newBlockNum, createdBlockNum, Pkhxr1h40mRecoveryLockRel)
}

// IsExpired reports whether an output of kind created at createdBlockNum can be
// spent by anyone at newBlockNum. Kinds without expiry never expire.
func (k OutputKind) IsExpired(newBlockNum, createdBlockNum uint32) bool {
	switch k {
	case OutputPkhx90d:
		return IsPkhx90dExpired(newBlockNum, createdBlockNum)
	case OutputPkhx1h:
		return IsPkhx1hExpired(newBlockNum, createdBlockNum)
	case OutputPkhxr90d60d:
		return IsPkhxr90d60dExpired(newBlockNum, createdBlockNum)
	case OutputPkhxr1h40m:
		return IsPkhxr1h40mExpired(newBlockNum, createdBlockNum)
	default:
		return false
	}
}

// IsRecoverable reports whether the recovery key of a pkhxr output may spend it.
func (k OutputKind) IsRecoverable(newBlockNum, createdBlockNum uint32) bool {
	switch k {
	case OutputPkhxr90d60d:
		return IsPkhxr90d60dRecoverable(newBlockNum, createdBlockNum)
	case OutputPkhxr1h40m:
		return IsPkhxr1h40mRecoverable(newBlockNum, createdBlockNum)
	default:
		return false
	}
}
