package device

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "device")
