// Package postprocess rewrites the leaves of a merged configuration tree
// before values are decoded.
//
// Apply visits every leaf and runs the processors in order, each one receiving
// the output of the previous one. Findings are collected per leaf; a failing
// leaf keeps its last good value and the pass continues unless fail-fast is
// requested.
//
// Substitution is the stock processor. It expands expressions of the form
//
//	${key}                 first transformer that knows key
//	${env:HOME}            named transformer
//	${env:PORT:=8080}      with a default
//	${env:${sys:var}}      nested expressions resolve inside out
//	\${literal}            escaped, left as ${literal}
package postprocess
