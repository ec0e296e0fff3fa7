package xerrors

var (
	// ErrNullMoneyness 未设置 moneyness。
	ErrNullMoneyness = New(ErrInvalidArg, 400101, "moneyness", "null moneyness given", nil)
	// ErrNonPositiveMoneyness moneyness 非正。
	ErrNonPositiveMoneyness = New(ErrInvalidArg, 400102, "moneyness", "negative or zero moneyness given", nil)
	// ErrNullResetDate 未设置重置日。
	ErrNullResetDate = New(ErrInvalidArg, 400103, "resetDate", "null reset date given", nil)
	// ErrNegativeResetTime 重置日早于参考日。
	ErrNegativeResetTime = New(ErrInvalidArg, 400104, "resetDate", "negative reset time given", nil)
	// ErrResetAfterMaturity 重置时间晚于到期。
	ErrResetAfterMaturity = New(ErrInvalidArg, 400105, "resetDate", "reset time greater than maturity", nil)

	// ErrNullUnderlying 未设置标的价格。
	ErrNullUnderlying = New(ErrInvalidArg, 400111, "underlying", "null underlying given", nil)
	// ErrNonPositiveUnderlying 标的价格非正。
	ErrNonPositiveUnderlying = New(ErrInvalidArg, 400112, "underlying", "negative or zero underlying given", nil)
	// ErrNullStrike 未设置行权价。
	ErrNullStrike = New(ErrInvalidArg, 400113, "strike", "null strike given", nil)
	// ErrNegativeStrike 行权价为负。
	ErrNegativeStrike = New(ErrInvalidArg, 400114, "strike", "negative strike given", nil)
	// ErrNegativeMaturity 到期时间为负。
	ErrNegativeMaturity = New(ErrInvalidArg, 400115, "maturity", "negative maturity given", nil)
	// ErrNullMaturity 未设置到期时间。
	ErrNullMaturity = New(ErrInvalidArg, 400121, "maturity", "null maturity given", nil)
	// ErrMissingDividendTS 缺少股息率曲线。
	ErrMissingDividendTS = New(ErrInvalidArg, 400116, "dividendTS", "no dividend term structure given", nil)
	// ErrMissingRiskFreeTS 缺少无风险利率曲线。
	ErrMissingRiskFreeTS = New(ErrInvalidArg, 400117, "riskFreeTS", "no risk-free term structure given", nil)
	// ErrMissingVolTS 缺少波动率曲面。
	ErrMissingVolTS = New(ErrInvalidArg, 400118, "volTS", "no volatility term structure given", nil)
	// ErrInvalidOptionType 无效的期权类型。
	ErrInvalidOptionType = New(ErrInvalidArg, 400119, "type", "invalid option type, supported types: call, put", nil)
	// ErrUnsupportedExercise 引擎不支持该行权方式。
	ErrUnsupportedExercise = New(ErrInvalidArg, 400120, "exerciseType", "not an European option", nil)

	// ErrNonPositiveVolatility 波动率非正。
	ErrNonPositiveVolatility = New(ErrInvalidArg, 400131, "volatility", "negative or zero volatility given", nil)
	// ErrNonPositiveResidualTime 剩余期限非正。
	ErrNonPositiveResidualTime = New(ErrInvalidArg, 400132, "residualTime", "negative or zero residual time given", nil)
	// ErrInvalidSampleCount 样本数非法。
	ErrInvalidSampleCount = New(ErrInvalidArg, 400133, "samples", "sample count must be positive", nil)
	// ErrInvalidTolerance 目标误差非法。
	ErrInvalidTolerance = New(ErrInvalidArg, 400134, "tolerance", "tolerance must be positive", nil)
	// ErrSamplesAlreadyAccumulated 请求的样本数小于已累积的样本数。
	ErrSamplesAlreadyAccumulated = New(ErrInvalidArg, 400135, "samples", "number of already simulated samples greater than requested samples", nil)
	// ErrInvalidTimeSteps 时间步数非法。
	ErrInvalidTimeSteps = New(ErrInvalidArg, 400136, "timeSteps", "time steps must be positive", nil)

	// ErrNilEngine 被包装的引擎为空或类型错误。
	ErrNilEngine = New(ErrTypeMismatch, 409101, "engine", "null engine or wrong engine type", nil)

	// ErrMaxSamplesExceeded 达到最大样本数仍未满足目标误差。
	ErrMaxSamplesExceeded = New(ErrLimitExceeded, 429101, "samples", "max number of samples exceeded", nil)
	// ErrZeroMean 估计均值为零，无法计算相对误差。
	ErrZeroMean = New(ErrInternal, 500101, "value", "cannot estimate relative accuracy of a zero-mean estimate", nil)
)
