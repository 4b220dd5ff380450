package listnav

// None marks the absence of an active or selected index.
const None = -1

// Disabled reports whether the item at index can not be navigated to.
type Disabled func(index int) bool

// DisabledSet adapts an explicit index list.
func DisabledSet(indices []int) Disabled {
	set := make(map[int]bool, len(indices))
	for _, i := range indices {
		set[i] = true
	}
	return func(i int) bool { return set[i] }
}

// FindNonDisabledIndex walks from start by amount (backwards when decrement
// is set) until it reaches an enabled index or leaves the list. The result
// is out of bounds when no enabled index exists in that direction.
func FindNonDisabledIndex(length int, disabled Disabled, start int, decrement bool, amount int) int {
	if amount <= 0 {
		amount = 1
	}
	index := start
	for {
		if decrement {
			index -= amount
		} else {
			index += amount
		}
		if index < 0 || index > length-1 || disabled == nil || !disabled(index) {
			return index
		}
	}
}

// MinIndex returns the first enabled index, or length when none exists.
func MinIndex(length int, disabled Disabled) int {
	return FindNonDisabledIndex(length, disabled, -1, false, 1)
}

// MaxIndex returns the last enabled index, or -1 when none exists.
func MaxIndex(length int, disabled Disabled) int {
	return FindNonDisabledIndex(length, disabled, length, true, 1)
}

func outOfBounds(length, index int) bool {
	return index < 0 || index >= length
}

func sameRow(index, cols, row int) bool {
	return floorDiv(index, cols) == row
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// gridIndex computes the next index for an arrow key in a grid of cols
// columns. Vertical moves keep the column; horizontal moves (orientation
// Both only) stay on the row, with the row direction flipped under rtl.
func gridIndex(key string, prev, length, cols int, disabled Disabled, loop, rtl bool, orientation Orientation, minIndex, maxIndex int) int {
	next := prev
	switch key {
	case "ArrowUp":
		if prev == None {
			next = maxIndex
			break
		}
		next = FindNonDisabledIndex(length, disabled, prev, true, cols)
		if loop && (prev-cols < minIndex || next < 0) {
			col := prev % cols
			maxCol := maxIndex % cols
			offset := maxIndex - (maxCol - col)
			switch {
			case maxCol == col:
				next = maxIndex
			case maxCol > col:
				next = offset
			default:
				next = offset - cols
			}
			if !outOfBounds(length, next) && disabled != nil && disabled(next) {
				next = FindNonDisabledIndex(length, disabled, next, true, cols)
			}
		}
		if outOfBounds(length, next) {
			next = prev
		}
	case "ArrowDown":
		if prev == None {
			next = minIndex
			break
		}
		next = FindNonDisabledIndex(length, disabled, prev, false, cols)
		if loop && prev+cols > maxIndex {
			next = FindNonDisabledIndex(length, disabled, prev%cols-cols, false, cols)
		}
		if outOfBounds(length, next) {
			next = prev
		}
	}

	if orientation != Both || prev == None {
		return next
	}
	forward, back := "ArrowRight", "ArrowLeft"
	if rtl {
		forward, back = back, forward
	}
	row := floorDiv(prev, cols)
	switch key {
	case forward:
		if prev%cols != cols-1 {
			next = FindNonDisabledIndex(length, disabled, prev, false, 1)
			if loop && !sameRow(next, cols, row) {
				next = FindNonDisabledIndex(length, disabled, prev-prev%cols-1, false, 1)
			}
		} else if loop {
			next = FindNonDisabledIndex(length, disabled, prev-prev%cols-1, false, 1)
		}
		if !sameRow(next, cols, row) {
			next = prev
		}
	case back:
		if prev%cols != 0 {
			next = FindNonDisabledIndex(length, disabled, prev, true, 1)
			if loop && !sameRow(next, cols, row) {
				next = FindNonDisabledIndex(length, disabled, prev+(cols-prev%cols), true, 1)
			}
		} else if loop {
			next = FindNonDisabledIndex(length, disabled, prev+(cols-prev%cols), true, 1)
		}
		if !sameRow(next, cols, row) {
			next = prev
		}
	}
	if outOfBounds(length, next) {
		lastRow := floorDiv(maxIndex, cols) == row
		if loop && lastRow {
			if key == "ArrowLeft" {
				next = maxIndex
			} else {
				next = FindNonDisabledIndex(length, disabled, prev-prev%cols-1, false, 1)
			}
		} else {
			next = prev
		}
	}
	return next
}
