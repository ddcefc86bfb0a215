package bot

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// parseCreateArg разбирает аргумент /create: номер шага или дату.
func parseCreateArg(arg string, loc *time.Location) (step int, date time.Time, err error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return 0, date, nil
	}
	if n, err := strconv.Atoi(arg); err == nil {
		return n, date, nil
	}
	date, err = time.ParseInLocation("2006-01-02", arg, loc)
	if err != nil {
		return 0, date, errors.Errorf("unknown argument %q", arg)
	}
	return 0, date, nil
}

// parseIDAndStep разбирает "<id> [шаг]".
func parseIDAndStep(args string) (id int64, step int, err error) {
	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 {
		return 0, 0, errors.New("expected <id> [step]")
	}
	id, err = strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, 0, errors.Wrap(err, "id")
	}
	if len(fields) == 2 {
		if step, err = strconv.Atoi(fields[1]); err != nil {
			return 0, 0, errors.Wrap(err, "step")
		}
	}
	return id, step, nil
}
