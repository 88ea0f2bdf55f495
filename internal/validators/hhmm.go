package validators

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	domain "github.com/BruksfildServices01/venue-booking/internal/domain/booking"
)

var registerOnce sync.Once

// Register adds the custom binding tags to gin's validator:
//
//	hhmm  24h "HH:MM" clock time
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("hhmm", hhmm)
	})
}

func hhmm(fl validator.FieldLevel) bool {
	return domain.ValidHHMM(fl.Field().String())
}
