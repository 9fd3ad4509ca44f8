package providers

func SetupProcessor() *Processor {
	processor := NewProcessor()
	processor.RegisterRateProvider(NewStaticRateProvider())
	return processor
}
