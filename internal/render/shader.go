package render

// The normal arrives pre-multiplied by 1/w in custom.xyz with 1/w in
// custom.w, so dividing restores a perspective correct value.
var shaderSource = []byte(`
//kage:unit pixels
package main

var LightDir vec3
var LightColor vec3
var Ambient float
var EyeDir vec3

var Ka vec3
var Kd vec3
var Ks vec3
var Shininess float
var Opacity float

func Fragment(dst vec4, src vec2, rgba vec4, custom vec4) vec4 {
	n := custom.xyz
	if custom.w != 0.0 {
		n /= custom.w
	}

	rgb := Ka * Ambient
	if length(n) > 0.0 {
		n = normalize(n)
		l := normalize(LightDir)
		diffuse := dot(n, l)
		if diffuse > 0.0 {
			rgb += Kd * LightColor * diffuse
			h := normalize(l + normalize(EyeDir))
			s := dot(n, h)
			if s > 0.0 {
				rgb += Ks * LightColor * pow(s, Shininess)
			}
		}
	}

	rgb = clamp(rgb, vec3(0), vec3(1))
	return vec4(rgb*Opacity, Opacity)
}
`)
