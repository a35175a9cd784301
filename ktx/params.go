package ktx

import "github.com/woozymasta/gputex/compression"

// BasisParams is ktxBasisParams with every tunable explicitly optional.
type BasisParams struct {
	UASTC       bool
	Verbose     Opt[bool]
	NoSSE       Opt[bool]
	ThreadCount Opt[uint32]

	// ETC1S.
	CompressionLevel     Opt[uint32]
	QualityLevel         Opt[uint32]
	MaxEndpoints         Opt[uint32]
	EndpointRDOThreshold Opt[float32]
	MaxSelectors         Opt[uint32]
	SelectorRDOThreshold Opt[float32]
	NormalMap            Opt[bool]
	SeparateRGToRGBA     Opt[bool]
	NoEndpointRDO        Opt[bool]
	NoSelectorRDO        Opt[bool]

	// Shared.
	InputSwizzle Opt[[4]byte]
	PreSwizzle   Opt[bool]

	// UASTC.
	UASTCFlags                       Opt[uint32]
	UASTCRDO                         Opt[bool]
	UASTCRDOQualityScalar            Opt[float32]
	UASTCRDODictSize                 Opt[uint32]
	UASTCRDOMaxSmoothBlockErrorScale Opt[float32]
	UASTCRDOMaxSmoothBlockStdDev     Opt[float32]
	UASTCRDODontFavorSimplerModes    Opt[bool]
	UASTCRDONoMultithreading         Opt[bool]
}

// AstcParams is ktxAstcParams with every tunable explicitly optional.
type AstcParams struct {
	Verbose        Opt[bool]
	ThreadCount    Opt[uint32]
	BlockDimension Opt[uint32]
	Mode           Opt[uint32]
	QualityLevel   Opt[uint32]
	NormalMap      Opt[bool]
	Perceptual     Opt[bool]
	InputSwizzle   Opt[[4]byte]
}

// ETC1SArgs translates an ETC1S record.
func ETC1SArgs(p *compression.ETC1SParams) *BasisParams {
	return &BasisParams{
		UASTC:                false,
		Verbose:              optBool(p.Verbose),
		NoSSE:                optBool(p.NoSSE),
		ThreadCount:          optU32(p.ThreadCount),
		CompressionLevel:     optU32(p.CompressionLevel),
		QualityLevel:         optU32(p.QualityLevel),
		MaxEndpoints:         optU32(p.MaxEndpoints),
		EndpointRDOThreshold: optF32(p.EndpointRDOThreshold),
		MaxSelectors:         optU32(p.MaxSelectors),
		SelectorRDOThreshold: optF32(p.SelectorRDOThreshold),
		InputSwizzle:         optSwizzle(p.InputSwizzle),
		NormalMap:            optBool(p.NormalMap),
		SeparateRGToRGBA:     optBool(p.SeparateRGToRGBA),
		PreSwizzle:           optBool(p.PreSwizzle),
		NoEndpointRDO:        optBool(p.NoEndpointRDO),
		NoSelectorRDO:        optBool(p.NoSelectorRDO),
	}
}

// UASTCArgs translates a UASTC record.
func UASTCArgs(p *compression.UASTCParams) *BasisParams {
	args := &BasisParams{
		UASTC:                            true,
		Verbose:                          optBool(p.Verbose),
		NoSSE:                            optBool(p.NoSSE),
		ThreadCount:                      optU32(p.ThreadCount),
		InputSwizzle:                     optSwizzle(p.InputSwizzle),
		PreSwizzle:                       optBool(p.PreSwizzle),
		UASTCRDO:                         optBool(p.RDO),
		UASTCRDOQualityScalar:            optF32(p.RDOQualityScalar),
		UASTCRDODictSize:                 optU32(p.RDODictSize),
		UASTCRDOMaxSmoothBlockErrorScale: optF32(p.RDOMaxSmoothBlockErrorScale),
		UASTCRDOMaxSmoothBlockStdDev:     optF32(p.RDOMaxSmoothBlockStdDev),
		UASTCRDODontFavorSimplerModes:    optBool(p.RDODontFavorSimplerModes),
		UASTCRDONoMultithreading:         optBool(p.RDONoMultithreading),
	}
	if flags, ok := p.EffectiveFlags(); ok {
		args.UASTCFlags = Some(flags)
	}
	return args
}

// ASTCArgs translates an ASTC record.
func ASTCArgs(p *compression.ASTCParams) *AstcParams {
	return &AstcParams{
		Verbose:        optBool(p.Verbose),
		ThreadCount:    optU32(p.ThreadCount),
		BlockDimension: optFrom(p.BlockDimension, func(v compression.BlockDimension) uint32 { return uint32(v) }),
		Mode:           optFrom(p.Mode, func(v compression.EncoderMode) uint32 { return uint32(v) }),
		QualityLevel:   optFrom(p.QualityLevel, func(v compression.QualityLevel) uint32 { return uint32(v) }),
		NormalMap:      optBool(p.NormalMap),
		Perceptual:     optBool(p.Perceptual),
		InputSwizzle:   optSwizzle(p.InputSwizzle),
	}
}
