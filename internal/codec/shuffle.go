package codec

// Grid payloads are dominated by 32-bit words (voxel values and leaf
// coordinates), so the shuffle transform uses a fixed 4-byte element
// size. A payload whose length is not a multiple of 4 has its tail
// copied through untouched.
const shuffleElemSize = 4

// shuffle rearranges input so that byte j of every element is grouped
// together: [all byte 0s][all byte 1s][all byte 2s][all byte 3s][tail].
func shuffle(input []byte) []byte {
	numElems := len(input) / shuffleElemSize
	if numElems == 0 {
		return input
	}

	output := make([]byte, len(input))
	for i := 0; i < numElems; i++ {
		for j := 0; j < shuffleElemSize; j++ {
			output[j*numElems+i] = input[i*shuffleElemSize+j]
		}
	}
	copy(output[numElems*shuffleElemSize:], input[numElems*shuffleElemSize:])
	return output
}

// unshuffle reverses the shuffle transformation.
func unshuffle(input []byte) []byte {
	numElems := len(input) / shuffleElemSize
	if numElems == 0 {
		return input
	}

	output := make([]byte, len(input))
	for i := 0; i < numElems; i++ {
		for j := 0; j < shuffleElemSize; j++ {
			output[i*shuffleElemSize+j] = input[j*numElems+i]
		}
	}
	copy(output[numElems*shuffleElemSize:], input[numElems*shuffleElemSize:])
	return output
}
