package wizard

// Step шаг мастера записи
// Набор шагов закрыт: реализации есть только в этом пакете
type Step interface {
	Name() string
	isStep()
}

type (
	Closed            struct{}
	SelectingClient   struct{}
	SelectingProvider struct{}
	SelectingDateTime struct{}
	EnteringDetails   struct{}
	Submitting        struct{}
)

func (Closed) Name() string            { return "closed" }
func (SelectingClient) Name() string   { return "selecting_client" }
func (SelectingProvider) Name() string { return "selecting_provider" }
func (SelectingDateTime) Name() string { return "selecting_date_time" }
func (EnteringDetails) Name() string   { return "entering_details" }
func (Submitting) Name() string        { return "submitting" }

func (Closed) isStep()            {}
func (SelectingClient) isStep()   {}
func (SelectingProvider) isStep() {}
func (SelectingDateTime) isStep() {}
func (EnteringDetails) isStep()   {}
func (Submitting) isStep()        {}

// Variant вариант мастера: портал клиента или backoffice
type Variant string

const (
	// VariantPortal клиент записывается сам, шаг выбора клиента отсутствует
	VariantPortal Variant = "portal"

	// VariantBackoffice сотрудник записывает клиента, и начинает с поиска клиента
	VariantBackoffice Variant = "backoffice"
)

// ParseVariant конвертирует строку в Variant
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantPortal, VariantBackoffice:
		return Variant(s), nil
	default:
		return "", ErrUnknownVariant
	}
}

// InitialStep первый шаг после открытия мастера
func (v Variant) InitialStep() Step {
	if v == VariantBackoffice {
		return SelectingClient{}
	}
	return SelectingProvider{}
}
