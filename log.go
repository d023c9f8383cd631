package zkproto

import (
	"github.com/privacybydesign/zkproto/damgard"
	"github.com/privacybydesign/zkproto/fiatshamir"
	"github.com/privacybydesign/zkproto/protocol"
	"github.com/privacybydesign/zkproto/sigma"
	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

func init() {
	SetLogger(logrus.StandardLogger())
}

// SetLogger makes all packages of the module log to l.
func SetLogger(l *logrus.Logger) {
	Logger = l
	protocol.Logger = l
	sigma.Logger = l
	fiatshamir.Logger = l
	damgard.Logger = l
}
