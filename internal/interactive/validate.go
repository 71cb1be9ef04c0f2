package interactive

import (
	"errors"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"
)

var errNotANumber = errors.New("please enter a number")

func isFloat(ans interface{}) error {
	s, _ := ans.(string)
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return errNotANumber
	}
	return nil
}

func discardLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return log
}
