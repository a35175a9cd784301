package imageio

// SynthesizeAlpha sets every alpha byte of an RGBA8 buffer to 255.
func SynthesizeAlpha(pix []byte) {
	for i := 3; i < len(pix); i += 4 {
		pix[i] = 255
	}
}

// HasAlphaMask reports whether any pixel has alpha below 255.
func HasAlphaMask(pix []byte) (bool, error) {
	if len(pix)%4 != 0 {
		return false, ErrPixelLength
	}
	for i := 3; i < len(pix); i += 4 {
		if pix[i] < 255 {
			return true, nil
		}
	}
	return false, nil
}

// Premultiply scales RGB by alpha in place: c = c*a/255, truncating.
// Alpha bytes are untouched.
func Premultiply(pix []byte) error {
	if len(pix)%4 != 0 {
		return ErrPixelLength
	}
	for i := 0; i < len(pix); i += 4 {
		a := uint32(pix[i+3])
		if a == 255 {
			continue
		}
		pix[i] = byte(uint32(pix[i]) * a / 255)
		pix[i+1] = byte(uint32(pix[i+1]) * a / 255)
		pix[i+2] = byte(uint32(pix[i+2]) * a / 255)
	}
	return nil
}
