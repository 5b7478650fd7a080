package service

import (
	"github.com/lithammer/shortuuid/v3"
	"strconv"
	"strings"
	"time"
)

const (
	referencePrefix      = "BK"
	referenceSuffixLen   = 4
	maxReferenceAttempts = 5
)

// ReferenceGenerator produces human readable booking references.
type ReferenceGenerator func(now time.Time) string

// NewReference returns BK-<base36 unix millis>-<4 random chars>, all upper case.
func NewReference(now time.Time) string {
	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	// low-order digits, the leading ones are skewed by the 128 bit range.
	// upper-cased, the default alphabet folds into [2-9A-Z]
	id := shortuuid.New()
	suffix := strings.ToUpper(id[len(id)-referenceSuffixLen:])
	return referencePrefix + "-" + ts + "-" + suffix
}
