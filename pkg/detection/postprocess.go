package detection

// Postprocess converts raw detection rows into pixel-space detections.
//
// Each row is [batch_idx, label_id, score, xmin, ymin, xmax, ymax] with
// normalized coordinates. Rows with score > threshold are kept and scaled
// by the frame's original (pre-resize) size. A negative batch index marks
// the end of valid rows.
func Postprocess(out Tensor, frameW, frameH int, threshold float64, personLabel int) Result {
	var res Result

	rows := out.Rows(RowSize)
	for i := 0; i < rows; i++ {
		row := out.Data[i*RowSize : (i+1)*RowSize]
		if row[0] < 0 {
			break
		}

		score := row[2]
		if score <= float32(threshold) {
			continue
		}

		det := Detection{
			Box:   ToPixels(row[3], row[4], row[5], row[6], frameW, frameH),
			Label: int(row[1]),
			Score: score,
		}

		res.Detections = append(res.Detections, det)
		if det.Label == personLabel {
			res.Persons = append(res.Persons, det)
		}
	}

	return res
}

// ToPixels translates a normalized [xmin, ymin, xmax, ymax] box into a
// pixel box clamped to the frame.
func ToPixels(xmin, ymin, xmax, ymax float32, frameW, frameH int) Box {
	x0 := scale(xmin, frameW)
	y0 := scale(ymin, frameH)
	x1 := scale(xmax, frameW)
	y1 := scale(ymax, frameH)

	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}

	return Box{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// ToNormalized is the inverse of ToPixels, up to integer truncation.
func ToNormalized(b Box, frameW, frameH int) (xmin, ymin, xmax, ymax float32) {
	if frameW <= 0 || frameH <= 0 {
		return 0, 0, 0, 0
	}
	w, h := float32(frameW), float32(frameH)
	return float32(b.X) / w, float32(b.Y) / h, float32(b.X+b.W) / w, float32(b.Y+b.H) / h
}

// scale maps a normalized coordinate onto [0, size].
func scale(v float32, size int) int {
	p := int(float64(size) * float64(v))
	if p < 0 {
		return 0
	}
	if p > size {
		return size
	}
	return p
}
